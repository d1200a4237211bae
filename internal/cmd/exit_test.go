package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luapack/luapack/internal/cmdtypes"
)

func TestExitCodeName(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{cmdtypes.ExitSuccess, "Success"},
		{cmdtypes.ExitGeneralError, "General Error"},
		{cmdtypes.ExitValidationError, "Validation Error"},
		{cmdtypes.ExitPermissionDenied, "Permission Denied"},
		{cmdtypes.ExitNotFound, "Not Found"},
		{cmdtypes.ExitStale, "Stale Bundle"},
		{3, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeName(tt.code))
		})
	}
}
