package domain

import (
	"fmt"

	"github.com/allisson/frodo/internal/errors"
)

// NotFoundError reports that no value was ever written under Key (or it was
// deleted). It matches errors.ErrNotFound.
type NotFoundError struct {
	Key string
}

// NewNotFoundError returns a *NotFoundError for key.
func NewNotFoundError(key string) error {
	return &NotFoundError{Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return errors.ErrNotFound
}

// StorageError reports an I/O, serialization or cryptographic failure. Reason
// is human readable and never contains key bytes or plaintext. It matches
// errors.ErrStorage and, when set, the underlying Err.
type StorageError struct {
	Reason string
	Err    error
}

// NewStorageError returns a *StorageError. err may be nil.
func NewStorageError(reason string, err error) error {
	return &StorageError{Reason: reason, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage error: " + e.Reason
	}
	return fmt.Sprintf("storage error: %s: %v", e.Reason, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{errors.ErrStorage}
	}
	return []error{errors.ErrStorage, e.Err}
}

// Reasons used by the stores and the codec.
const (
	ReasonDecryptFailed = "decrypt failed"
	ReasonEncryptFailed = "encrypt failed"
	ReasonMalformedBlob = "malformed blob"
	ReasonInvalidKey    = "invalid logical key"
	ReasonIO            = "io failure"
	ReasonLock          = "lock failure"
	ReasonSerialization = "serialization failure"
)

// ErrRecordNotFound indicates a collection has no record with the given id.
var ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "record not found")
