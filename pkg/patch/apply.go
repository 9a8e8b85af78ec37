package patch

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/grovetools/textpatch/pkg/writer"
	"github.com/sirupsen/logrus"
)

// Result describes a successful Apply.
type Result struct {
	Patch  string
	Target string
	Match  Match
	Before string
	After  string
}

// Count returns the number of substitutions made.
func (r *Result) Count() int {
	return len(r.Match.Changes)
}

// Applier reads target files, applies patches and writes the result back.
type Applier struct {
	writer writer.Writer
	logger *logrus.Logger
}

// NewApplier creates an Applier that writes through w.
func NewApplier(w writer.Writer, logger *logrus.Logger) *Applier {
	return &Applier{writer: w, logger: logger}
}

// Apply performs one guarded substitution of p against p.Target.
//
// The target is written at most once. When no marker variant is eligible
// the returned error wraps ErrMarkerNotFound and the target is not written.
func (a *Applier) Apply(ctx context.Context, p Patch) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := a.read(p.Target)
	if err != nil {
		return nil, err
	}

	after, m, err := Substitute(text, p)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"patch":  p.Name,
			"target": p.Target,
		}).Debug("No eligible marker found")
		return nil, err
	}

	if m.Fallback() {
		a.logger.WithFields(logrus.Fields{
			"patch":    p.Name,
			"fallback": m.Index,
		}).Debug("Primary marker absent, using fallback")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.writer.WriteFile(p.Target, []byte(after)); err != nil {
		return nil, fmt.Errorf("failed to write patched %s: %w", p.Target, err)
	}

	a.logger.WithFields(logrus.Fields{
		"patch":   p.Name,
		"target":  p.Target,
		"changes": len(m.Changes),
	}).Debug("Patch applied")

	return &Result{
		Patch:  p.Name,
		Target: p.Target,
		Match:  m,
		Before: text,
		After:  after,
	}, nil
}

// Inspect reads p.Target and reports the patch status without writing.
func (a *Applier) Inspect(ctx context.Context, p Patch) (Status, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := a.read(p.Target)
	if err != nil {
		return "", err
	}
	return Inspect(text, p)
}

func (a *Applier) read(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if r, ok := a.writer.(writer.Reader); ok {
		data, err = r.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, path)
	}
	return string(data), nil
}
