package errors

import "errors"

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates a malformed rule, spec, flag or config.
	ExitValidationError = 2

	// ExitPermissionDenied indicates a file could not be read or written.
	ExitPermissionDenied = 4

	// ExitNotFound indicates an input, vendor root or config was not found.
	ExitNotFound = 5

	// ExitStale indicates bundle --check found an out-of-date bundle.
	ExitStale = 6
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code int
	Err  error

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrValidation):
		return ExitValidationError
	case errors.Is(err, ErrPermission):
		return ExitPermissionDenied
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrStale):
		return ExitStale
	default:
		return ExitGeneralError
	}
}
