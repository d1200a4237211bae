package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	lperrors "github.com/luapack/luapack/internal/errors"
)

// InputError indicates the entry script could not be read.
type InputError struct {
	// Path is the entry script path.
	Path string

	// Err is the underlying read error.
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("failed to read input %s: %v", e.Path, e.Err)
}

// Unwrap exposes the read error and the matching sentinel, so callers can
// test for either.
func (e *InputError) Unwrap() []error {
	errs := []error{e.Err}
	switch {
	case errors.Is(e.Err, fs.ErrNotExist):
		errs = append(errs, lperrors.ErrNotFound)
	case errors.Is(e.Err, fs.ErrPermission):
		errs = append(errs, lperrors.ErrPermission)
	}
	return errs
}
