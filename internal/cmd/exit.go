package cmd

import "github.com/luapack/luapack/internal/cmdtypes"

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case cmdtypes.ExitSuccess:
		return "Success"
	case cmdtypes.ExitGeneralError:
		return "General Error"
	case cmdtypes.ExitValidationError:
		return "Validation Error"
	case cmdtypes.ExitPermissionDenied:
		return "Permission Denied"
	case cmdtypes.ExitNotFound:
		return "Not Found"
	case cmdtypes.ExitStale:
		return "Stale Bundle"
	default:
		return "Unknown"
	}
}
