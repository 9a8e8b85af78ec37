package patch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Status is the state of a patch relative to the current text of its target.
type Status string

const (
	StatusPending Status = "pending" // an eligible marker exists; Apply would change the file
	StatusApplied Status = "applied" // no eligible marker, but the patched form is present
	StatusMissing Status = "missing" // neither marker nor patched form is present

	// StatusUnverified means no marker is left and the patch leaves nothing
	// recognisable behind: a deletion, or a regex replacement that expands
	// groups. Such a target cannot be told apart from drift.
	StatusUnverified Status = "unverified"
)

// Change is one substitution within the target text.
type Change struct {
	Start int    // byte offset of the matched marker
	End   int    // byte offset just past the matched marker
	Line  int    // 1-based line of Start
	Old   string // matched marker text
	New   string // text written in its place
}

// Match is the marker variant chosen by Locate and the changes it produces.
type Match struct {
	Marker  string
	Index   int // position in Patch.Markers(); 0 is the primary marker
	Changes []Change
}

// Fallback reports whether a fallback marker was used.
func (m Match) Fallback() bool {
	return m.Index > 0
}

// Locate finds the first marker variant of p that can still be applied to text.
//
// Variants are tried in order. Only the first occurrence of a variant is
// considered unless p.All is set. An occurrence that already sits inside its
// own substituted form is not eligible, so a second run over patched text
// fails with ErrMarkerNotFound instead of applying the patch again.
//
// The same rule applies to text that was never patched: with marker "a" and
// replacement "ab", the text "xab" has no eligible occurrence. A replacement
// that contains its own marker therefore cannot be applied next to text that
// already reads like its output.
func Locate(text string, p Patch) (Match, error) {
	if err := p.Validate(); err != nil {
		return Match{}, err
	}

	for i, marker := range p.Markers() {
		re, err := p.compile(marker)
		if err != nil {
			return Match{}, err
		}

		locs := findAll(text, marker, re)
		if len(locs) == 0 {
			continue
		}
		if !p.All {
			locs = locs[:1]
		}

		var changes []Change
		for _, loc := range locs {
			rendered := p.render(text, re, loc)
			if alreadyApplied(text, loc, rendered) {
				continue
			}
			changes = append(changes, Change{
				Start: loc[0],
				End:   loc[1],
				Line:  1 + strings.Count(text[:loc[0]], "\n"),
				Old:   text[loc[0]:loc[1]],
				New:   rendered,
			})
		}
		if len(changes) > 0 {
			return Match{Marker: marker, Index: i, Changes: changes}, nil
		}
	}

	return Match{}, &MarkerNotFoundError{Patch: p.Name, Target: p.Target, Markers: len(p.Markers())}
}

// Substitute returns text with p applied. On error the input text is returned unchanged.
func Substitute(text string, p Patch) (string, Match, error) {
	m, err := Locate(text, p)
	if err != nil {
		return text, Match{}, err
	}
	return m.apply(text), m, nil
}

// Inspect reports whether p is pending, already applied, or missing from text.
func Inspect(text string, p Patch) (Status, error) {
	_, err := Locate(text, p)
	if err == nil {
		return StatusPending, nil
	}
	if !errors.Is(err, ErrMarkerNotFound) {
		return "", err
	}

	// A marker that is present but ineligible only exists in patched form.
	for _, marker := range p.Markers() {
		re, err := p.compile(marker)
		if err != nil {
			return "", err
		}
		if len(findAll(text, marker, re)) > 0 {
			return StatusApplied, nil
		}
	}

	switch {
	case p.EffectiveMode() != ModeReplace:
		// Inserts keep their marker, so its absence is drift.
		return StatusMissing, nil
	case p.Replacement == "",
		p.EffectiveMatch() == MatchRegex && strings.Contains(p.Replacement, "$"):
		return StatusUnverified, nil
	case strings.Contains(text, p.Replacement):
		return StatusApplied, nil
	}
	return StatusMissing, nil
}

func (m Match) apply(text string) string {
	var b strings.Builder
	last := 0
	for _, c := range m.Changes {
		b.WriteString(text[last:c.Start])
		b.WriteString(c.New)
		last = c.End
	}
	b.WriteString(text[last:])
	return b.String()
}

func (p Patch) compile(marker string) (*regexp.Regexp, error) {
	if p.EffectiveMatch() != MatchRegex {
		return nil, nil
	}
	re, err := regexp.Compile(marker)
	if err != nil {
		return nil, fmt.Errorf("%w: patch %q: %v", ErrInvalidPatch, p.Name, err)
	}
	return re, nil
}

// render returns the text that replaces the occurrence at loc.
func (p Patch) render(text string, re *regexp.Regexp, loc []int) string {
	replacement := p.Replacement
	if re != nil {
		replacement = string(re.ExpandString(nil, p.Replacement, text, loc))
	}

	matched := text[loc[0]:loc[1]]
	switch p.EffectiveMode() {
	case ModeInsertAfter:
		return matched + replacement
	case ModeInsertBefore:
		return replacement + matched
	default:
		return replacement
	}
}

// findAll returns the [start, end, submatches...] index slices of every
// non-overlapping occurrence of marker.
func findAll(text, marker string, re *regexp.Regexp) [][]int {
	if re != nil {
		return re.FindAllStringSubmatchIndex(text, -1)
	}

	var locs [][]int
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], marker)
		if i < 0 {
			break
		}
		start := offset + i
		locs = append(locs, []int{start, start + len(marker)})
		offset = start + len(marker)
	}
	return locs
}

// alreadyApplied reports whether the occurrence at loc is embedded in text
// exactly where rendered would put it.
func alreadyApplied(text string, loc []int, rendered string) bool {
	matched := text[loc[0]:loc[1]]
	for k := strings.Index(rendered, matched); k >= 0; {
		start := loc[0] - k
		end := start + len(rendered)
		if start >= 0 && end <= len(text) && text[start:end] == rendered {
			return true
		}
		if k+1 > len(rendered) {
			break
		}
		next := strings.Index(rendered[k+1:], matched)
		if next < 0 {
			break
		}
		k += 1 + next
	}
	return false
}
