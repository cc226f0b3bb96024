// Package filelock provides an advisory cross-process lock on a file path,
// acquired with a deadline.
package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/allisson/frodo/internal/errors"
)

const (
	// DefaultTimeout bounds how long Acquire waits for another holder.
	DefaultTimeout = 10 * time.Second

	retryDelay = 50 * time.Millisecond
)

// ErrTimeout indicates the lock was still held by someone else at the deadline.
var ErrTimeout = errors.Wrap(errors.ErrConflict, "lock timed out")

// Lock is an exclusive lock on one path. A nil *Lock is valid: Acquire
// succeeds immediately and release does nothing.
//
// flock locks are per file description, so a Lock must not be acquired twice
// concurrently from one process. Callers pair it with an in-process mutex.
type Lock struct {
	lock    *flock.Flock
	timeout time.Duration
}

// New returns a Lock on path, or nil if path is empty. A timeout <= 0 means
// DefaultTimeout.
func New(path string, timeout time.Duration) *Lock {
	if path == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Lock{lock: flock.New(path), timeout: timeout}
}

// Path returns the lock file path, or "" for a nil Lock.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.lock.Path()
}

// Acquire blocks until the lock is held, ctx ends or the timeout elapses. The
// parent directory is created if needed.
func (l *Lock) Acquire(ctx context.Context) (release func(), err error) {
	if l == nil {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.lock.Path()), 0o700); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ok, err := l.lock.TryLockContext(ctx, retryDelay)
	if ok {
		return func() { _ = l.lock.Unlock() }, nil
	}
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s", ErrTimeout, l.lock.Path())
	}
	return nil, fmt.Errorf("lock %s: %w", l.lock.Path(), err)
}
