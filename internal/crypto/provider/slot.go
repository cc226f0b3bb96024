package provider

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

// keySlot is a lock-guarded single slot holding the provider's key material.
// Concurrent misses share one load through singleflight.
type keySlot struct {
	mu       sync.RWMutex
	material *cryptoDomain.KeyMaterial
	group    singleflight.Group
}

type loadFunc func(ctx context.Context) (*cryptoDomain.KeyMaterial, error)

// cached returns a copy of the held key, or nil. The copy is taken under the
// lock since destroy zeroes the held key in place.
func (s *keySlot) cached() *cryptoDomain.KeyMaterial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.material == nil {
		return nil
	}
	return s.material.Clone()
}

// get returns a copy of the cached key or runs load once for all waiting
// callers. A caller whose ctx ends stops waiting, but the shared load keeps
// running for the others.
func (s *keySlot) get(ctx context.Context, load loadFunc) (*cryptoDomain.KeyMaterial, error) {
	if km := s.cached(); km != nil {
		return km, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := s.group.DoChan("key", func() (any, error) {
		if km := s.cached(); km != nil {
			return km, nil
		}

		km, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		// Waiters share the returned value, so it must not be the slot's copy.
		shared := km.Clone()
		s.mu.Lock()
		s.material = km
		s.mu.Unlock()
		return shared, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*cryptoDomain.KeyMaterial).Clone(), nil
	}
}

// destroy zeroes and drops the cached key.
func (s *keySlot) destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.material != nil {
		s.material.Destroy()
		s.material = nil
	}
}
