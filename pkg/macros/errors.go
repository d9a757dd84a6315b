package macros

import (
	"errors"
	"fmt"
)

// ErrResolution is wrapped by every ResolutionError.
var ErrResolution = errors.New("macros: no form-like object found in local scope")

// ResolutionError reports that a tag could not locate a form at render time.
type ResolutionError struct {
	Tag  string
	Mode any
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Mode != nil:
		return fmt.Sprintf("%s (tag %q, mode %v)", ErrResolution, e.Tag, e.Mode)
	case e.Tag != "":
		return fmt.Sprintf("%s (tag %q)", ErrResolution, e.Tag)
	default:
		return ErrResolution.Error()
	}
}

func (e *ResolutionError) Unwrap() error {
	return ErrResolution
}
