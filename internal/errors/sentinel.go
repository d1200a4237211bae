package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates malformed input: a replace rule, vendor spec,
	// config value or flag.
	ErrValidation = errors.New("validation error")

	// ErrPermission indicates insufficient permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates an input file, vendor root, or config file was
	// not found.
	ErrNotFound = errors.New("not found")

	// ErrStale indicates an existing bundle differs from the one that would
	// be generated.
	ErrStale = errors.New("bundle is stale")
)
