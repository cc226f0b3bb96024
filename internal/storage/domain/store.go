// Package domain defines the SecureStore contract, its error types and the
// on-disk blob format.
package domain

import "context"

// SecureStore persists opaque values under logical string keys. Values are
// encrypted before they reach the backing medium.
//
// Get returns a *NotFoundError for a key that was never written. Delete of an
// absent key succeeds. Any other failure is a *StorageError, or a key
// provider error from internal/crypto/domain.
type SecureStore interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// KeyLister is implemented by stores that can enumerate their logical keys.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}
