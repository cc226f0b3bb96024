// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/frodo/internal/errors"
)

// MaxLogicalKeyLength bounds logical keys so their encoded file names stay
// under common filesystem name limits.
const MaxLogicalKeyLength = 190

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Tag validates a task tag: no whitespace anywhere and no commas, since the
// CLI takes tags as a comma separated list.
var Tag = validation.NewStringRuleWithError(
	func(s string) bool {
		return !strings.ContainsFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || r == ','
		})
	},
	validation.NewError("validation_tag", "must not contain whitespace or commas"),
)

// LogicalKey validates a SecureStore key.
var LogicalKey = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_logical_key_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) > MaxLogicalKeyLength {
		return validation.NewError("validation_logical_key_length", "must be at most 190 bytes")
	}
	if strings.ContainsRune(s, 0) {
		return validation.NewError("validation_logical_key_nul", "must not contain NUL bytes")
	}
	return nil
})

// KeeperURI validates a gocloud secrets keeper URL such as base64key://... or
// hashivault://name.
var KeeperURI = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_keeper_uri_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || !strings.Contains(s, "://") {
		return validation.NewError("validation_keeper_uri", "must be a keeper URL like base64key://KEY")
	}
	return nil
})
