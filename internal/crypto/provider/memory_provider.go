package provider

import (
	"context"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

// MemoryKeyID labels keys produced by MemoryProvider.
const MemoryKeyID = "ephemeral"

// MemoryProvider generates a key on first use and returns it for the rest of
// its lifetime. Nothing touches disk, so data written under it is unreadable
// once the provider is gone. Use it for tests and ephemeral sessions.
type MemoryProvider struct {
	slot keySlot
}

// NewMemoryProvider creates an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

// GetOrCreate returns the provider's key, generating it on the first call.
func (p *MemoryProvider) GetOrCreate(ctx context.Context) (*cryptoDomain.KeyMaterial, error) {
	return p.slot.get(ctx, func(context.Context) (*cryptoDomain.KeyMaterial, error) {
		return cryptoDomain.GenerateKeyMaterial(MemoryKeyID)
	})
}

// Close zeroes the key. A later GetOrCreate generates a new one.
func (p *MemoryProvider) Close() error {
	p.slot.destroy()
	return nil
}
