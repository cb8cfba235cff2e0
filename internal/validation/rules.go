// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/hex"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

var (
	// jobNameRegex restricts job identifiers to the characters produced by the
	// upload gateway. Anything else (path separators, NUL bytes, dots) is
	// rejected before a name can reach the filesystem.
	jobNameRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// HexString validates that a string is valid hex-encoded data.
var HexString = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_hex_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := hex.DecodeString(s); err != nil {
		return validation.NewError("validation_hex", "must be valid hex-encoded data")
	}
	return nil
})

// JobName validates that a string is a safe job identifier.
var JobName = validation.NewStringRuleWithError(
	func(s string) bool {
		return s != "" && len(s) <= 255 && jobNameRegex.MatchString(s)
	},
	validation.NewError("validation_job_name", "must be a valid job identifier"),
)
