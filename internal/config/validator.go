package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luapack/luapack/internal/bundle"
	lperrors "github.com/luapack/luapack/internal/errors"
	"github.com/luapack/luapack/internal/replace"
	"github.com/luapack/luapack/internal/vendor"
	"github.com/luapack/luapack/internal/version"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap ties every validation failure to ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return lperrors.ErrValidation
}

// ValidateBundleConfig checks dialect and bind mode values, path
// templates, and that every replace rule and vendor spec parses.
func ValidateBundleConfig(b BundleConfig) error {
	var errs ValidationErrors

	if b.Lua != "" && !version.IsValidDialect(b.Lua) {
		errs = append(errs, ValidationError{
			Field:   "bundle.lua",
			Message: fmt.Sprintf("unsupported dialect %q (valid: %s)", b.Lua, strings.Join(version.Dialects, ", ")),
		})
	}

	if b.BindRequire != "" {
		if _, err := bundle.ParseBindMode(b.BindRequire); err != nil {
			errs = append(errs, ValidationError{
				Field:   "bundle.bind_require",
				Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(bundle.ValidBindModes(), ", "), b.BindRequire),
			})
		}
	}

	for i, p := range b.Paths {
		if !strings.Contains(p, "?") {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("bundle.paths[%d]", i),
				Message: fmt.Sprintf("path template %q has no '?' placeholder", p),
			})
		}
	}

	for i, raw := range b.Replace {
		if _, err := replace.ParseRule(raw); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("bundle.replace[%d]", i),
				Message: firstLine(err),
			})
		}
	}

	for i, raw := range b.Vendors {
		if _, err := vendor.ParseSpec(raw); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("bundle.vendors[%d]", i),
				Message: firstLine(err),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// firstLine returns the message of err, preferring DetailError.Message
// over its multi-line rendering.
func firstLine(err error) string {
	var d *lperrors.DetailError
	if errors.As(err, &d) {
		return d.Message
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
