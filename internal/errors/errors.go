// Package errors provides the shared error taxonomy for the storage engine.
// Domain packages wrap these sentinels so callers can tell "never written"
// apart from "corrupted or tampered" with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors shared by every domain package.
var (
	// ErrNotFound indicates the logical key or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates an I/O, serialization or cryptographic failure.
	ErrStorage = errors.New("storage failure")

	// ErrKey indicates the key provider could not supply key material.
	ErrKey = errors.New("key provider failure")

	// ErrConflict indicates a concurrent writer holds the resource.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
