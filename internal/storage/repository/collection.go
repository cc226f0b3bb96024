package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/allisson/frodo/internal/errors"
	"github.com/allisson/frodo/internal/filelock"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
)

// Record is an element of a Collection.
type Record interface {
	GetID() uuid.UUID
}

// Collection stores a slice of records as one JSON document under a fixed
// logical key.
//
// Every mutation reads the whole document, changes it in memory and writes it
// back with a single Put. Mutations are serialised by a mutex and, when a lock
// is configured, by a file lock held for the full read-modify-write, so
// concurrent writers in other processes cannot lose each other's updates.
type Collection[T Record] struct {
	store storageDomain.SecureStore
	key   string
	lock  *filelock.Lock
	mu    sync.Mutex
}

// NewCollection creates a Collection under key. lock may be nil when the
// store has a single writer process.
func NewCollection[T Record](store storageDomain.SecureStore, key string, lock *filelock.Lock) *Collection[T] {
	return &Collection[T]{store: store, key: key, lock: lock}
}

// Key returns the logical key holding the document.
func (c *Collection[T]) Key() string {
	return c.key
}

// List returns every record. A document that was never written is an empty
// collection.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.load(ctx)
}

// Get returns the record with id, or ErrRecordNotFound.
func (c *Collection[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.GetID() == id {
			return item, nil
		}
	}
	return zero, fmt.Errorf("%w: %s", storageDomain.ErrRecordNotFound, id)
}

// Append adds item to the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, item T) error {
	return c.mutate(ctx, func(items []T) ([]T, error) {
		return append(items, item), nil
	})
}

// Update applies fn to the record with id and stores the result. If fn
// returns an error nothing is written.
func (c *Collection[T]) Update(ctx context.Context, id uuid.UUID, fn func(*T) error) (T, error) {
	var updated T
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].GetID() != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			updated = items[i]
			return items, nil
		}
		return nil, fmt.Errorf("%w: %s", storageDomain.ErrRecordNotFound, id)
	})
	return updated, err
}

func (c *Collection[T]) mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	release, err := c.lock.Acquire(ctx)
	if err != nil {
		return storageDomain.NewStorageError(storageDomain.ReasonLock, err)
	}
	defer release()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, items)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, storageDomain.NewStorageError(storageDomain.ReasonSerialization, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return storageDomain.NewStorageError(storageDomain.ReasonSerialization, err)
	}
	return c.store.Put(ctx, c.key, data)
}
