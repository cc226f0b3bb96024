package repository

import (
	"context"
	"time"

	"github.com/allisson/frodo/internal/metrics"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
)

// secureStoreWithMetrics decorates a SecureStore with metrics instrumentation.
type secureStoreWithMetrics struct {
	next    storageDomain.SecureStore
	metrics metrics.BusinessMetrics
}

// NewSecureStoreWithMetrics wraps store with metrics recording. The result
// also implements KeyLister when store does.
func NewSecureStoreWithMetrics(store storageDomain.SecureStore, m metrics.BusinessMetrics) storageDomain.SecureStore {
	decorated := &secureStoreWithMetrics{next: store, metrics: m}
	if lister, ok := store.(storageDomain.KeyLister); ok {
		return &listingStoreWithMetrics{secureStoreWithMetrics: decorated, lister: lister}
	}
	return decorated
}

func (s *secureStoreWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	s.metrics.RecordOperation(ctx, "storage", operation, status)
	s.metrics.RecordDuration(ctx, "storage", operation, time.Since(start), status)
}

// Put records metrics for store writes.
func (s *secureStoreWithMetrics) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Put(ctx, key, value)
	s.record(ctx, "put", start, err)
	return err
}

// Get records metrics for store reads.
func (s *secureStoreWithMetrics) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	s.record(ctx, "get", start, err)
	return value, err
}

// Delete records metrics for store deletes.
func (s *secureStoreWithMetrics) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.record(ctx, "delete", start, err)
	return err
}

type listingStoreWithMetrics struct {
	*secureStoreWithMetrics
	lister storageDomain.KeyLister
}

// Keys records metrics for key listing.
func (s *listingStoreWithMetrics) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := s.lister.Keys(ctx)
	s.record(ctx, "keys", start, err)
	return keys, err
}
