// Package provider implements the key providers that supply the 256-bit data
// key to the encrypted file store.
//
// The set of providers is closed and chosen at construction time:
//
//   - MemoryProvider keeps a generated key for its own lifetime only.
//   - KeyringProvider persists the key in the OS secret store.
//   - KeeperProvider persists the key in a file, wrapped by a KMS keeper.
//
// Every provider guarantees that concurrent first-time callers observe one key:
// generation is single-flighted in process, and the durable providers take a
// file lock around read-generate-write so only one process ever writes a key.
package provider

import (
	"context"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

// KeyProvider supplies the data key, creating and persisting it on first use.
//
// The returned KeyMaterial is a copy owned by the caller, who may Destroy it.
// Errors wrap one of cryptoDomain.ErrKeyBackendUnavailable, ErrKeyCorrupt or
// ErrKeyGenerationFailed, or are the context error.
type KeyProvider interface {
	GetOrCreate(ctx context.Context) (*cryptoDomain.KeyMaterial, error)
}
