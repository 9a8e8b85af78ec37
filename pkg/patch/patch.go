package patch

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode controls where the replacement text lands relative to the matched marker.
type Mode string

const (
	ModeReplace      Mode = "replace"       // marker is swapped for the replacement
	ModeInsertAfter  Mode = "insert_after"  // marker is kept, replacement follows it
	ModeInsertBefore Mode = "insert_before" // marker is kept, replacement precedes it
)

// MatchKind selects how markers are interpreted.
type MatchKind string

const (
	MatchLiteral MatchKind = "literal"
	MatchRegex   MatchKind = "regex"
)

// Patch is a single guarded substitution against one target file.
type Patch struct {
	Name        string    `yaml:"name" json:"name" jsonschema:"description=Unique name of the patch"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Target      string    `yaml:"target" json:"target" jsonschema:"description=File to patch; relative paths resolve against the manifest root"`
	Marker      string    `yaml:"marker" json:"marker" jsonschema:"description=Primary marker searched for first"`
	Fallbacks   []string  `yaml:"fallbacks,omitempty" json:"fallbacks,omitempty" jsonschema:"description=Alternate markers tried in order when the primary is absent"`
	Replacement string    `yaml:"replacement" json:"replacement"`
	Mode        Mode      `yaml:"mode,omitempty" json:"mode,omitempty" jsonschema:"enum=replace,enum=insert_after,enum=insert_before,default=replace"`
	Match       MatchKind `yaml:"match,omitempty" json:"match,omitempty" jsonschema:"enum=literal,enum=regex,default=literal"`
	All         bool      `yaml:"all,omitempty" json:"all,omitempty" jsonschema:"description=Substitute every occurrence of the matched marker instead of the first"`
}

// Markers returns the primary marker followed by the fallbacks, in search order.
func (p Patch) Markers() []string {
	markers := make([]string, 0, len(p.Fallbacks)+1)
	markers = append(markers, p.Marker)
	return append(markers, p.Fallbacks...)
}

// EffectiveMode returns the configured mode, defaulting to ModeReplace.
func (p Patch) EffectiveMode() Mode {
	if p.Mode == "" {
		return ModeReplace
	}
	return p.Mode
}

// EffectiveMatch returns the configured match kind, defaulting to MatchLiteral.
func (p Patch) EffectiveMatch() MatchKind {
	if p.Match == "" {
		return MatchLiteral
	}
	return p.Match
}

// Validate checks that the patch can be applied.
func (p Patch) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPatch)
	}
	if p.Target == "" {
		return fmt.Errorf("%w: patch %q has no target", ErrInvalidPatch, p.Name)
	}

	switch p.EffectiveMode() {
	case ModeReplace:
	case ModeInsertAfter, ModeInsertBefore:
		if p.Replacement == "" {
			return fmt.Errorf("%w: patch %q inserts nothing", ErrInvalidPatch, p.Name)
		}
	default:
		return fmt.Errorf("%w: patch %q has unknown mode %q", ErrInvalidPatch, p.Name, p.Mode)
	}

	kind := p.EffectiveMatch()
	if kind != MatchLiteral && kind != MatchRegex {
		return fmt.Errorf("%w: patch %q has unknown match kind %q", ErrInvalidPatch, p.Name, p.Match)
	}

	for i, marker := range p.Markers() {
		if marker == "" {
			if i == 0 {
				return fmt.Errorf("%w: patch %q has no marker", ErrInvalidPatch, p.Name)
			}
			return fmt.Errorf("%w: patch %q has an empty fallback at position %d", ErrInvalidPatch, p.Name, i)
		}
		if kind == MatchRegex {
			if _, err := regexp.Compile(marker); err != nil {
				return fmt.Errorf("%w: patch %q marker %d: %v", ErrInvalidPatch, p.Name, i, err)
			}
		}
	}
	return nil
}
