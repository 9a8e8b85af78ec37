package patch

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkerNotFound is returned when no marker variant of a patch is present
	// in a form that can still be applied.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrInvalidPatch is returned by Validate.
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrInvalidEncoding is returned when a target file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("target is not valid UTF-8")
)

// MarkerNotFoundError describes a failed search. It unwraps to ErrMarkerNotFound.
type MarkerNotFoundError struct {
	Patch   string
	Target  string
	Markers int
}

func (e *MarkerNotFoundError) Error() string {
	if e.Markers == 1 {
		return fmt.Sprintf("patch %q: marker not found in %s", e.Patch, e.Target)
	}
	return fmt.Sprintf("patch %q: none of %d marker variants found in %s", e.Patch, e.Markers, e.Target)
}

func (e *MarkerNotFoundError) Unwrap() error {
	return ErrMarkerNotFound
}
