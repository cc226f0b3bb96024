package repository

import (
	"context"
	"slices"
	"sync"

	storageDomain "github.com/allisson/frodo/internal/storage/domain"
)

const maskByte = 0xA5

// MaskedMemoryStore is an in-memory SecureStore for tests. Values are XORed
// with a fixed byte so plaintext is not held verbatim, which is NOT
// encryption. Never use it for real data.
type MaskedMemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMaskedMemoryStore creates an empty MaskedMemoryStore.
func NewMaskedMemoryStore() *MaskedMemoryStore {
	return &MaskedMemoryStore{values: make(map[string][]byte)}
}

func mask(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c ^ maskByte
	}
	return out
}

func (m *MaskedMemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = mask(value)
	return nil
}

func (m *MaskedMemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, storageDomain.NewNotFoundError(key)
	}
	return mask(v), nil
}

func (m *MaskedMemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MaskedMemoryStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}
