// Package repository implements SecureStore backends and the generic record
// collection layered on top of them.
package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/allisson/frodo/internal/crypto/provider"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
	storageService "github.com/allisson/frodo/internal/storage/service"
)

const (
	dirPerm = 0o700

	// Temp files start with a dot. Encoded key names never do, so the two
	// cannot collide and Keys can skip them.
	tempPattern = ".tmp-*"

	maxFileName = 255
)

// EncryptedFileStore is a SecureStore keeping one encrypted file per logical
// key under a root directory. File names are the URL-safe base64 of the key.
type EncryptedFileStore struct {
	root     string
	provider provider.KeyProvider
	codec    storageService.BlobCodec
	logger   *slog.Logger
}

// NewEncryptedFileStore creates a store rooted at root. The directory is
// created on the first Put.
func NewEncryptedFileStore(
	root string,
	keyProvider provider.KeyProvider,
	codec storageService.BlobCodec,
	logger *slog.Logger,
) *EncryptedFileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EncryptedFileStore{
		root:     root,
		provider: keyProvider,
		codec:    codec,
		logger:   logger,
	}
}

// Root returns the directory holding the store's files.
func (s *EncryptedFileStore) Root() string {
	return s.root
}

// EncodeFileName maps a logical key to its file name.
func EncodeFileName(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// DecodeFileName reverses EncodeFileName.
func DecodeFileName(name string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *EncryptedFileStore) path(key string) (string, error) {
	if key == "" {
		return "", storageDomain.NewStorageError(storageDomain.ReasonInvalidKey, errors.New("empty key"))
	}
	name := EncodeFileName(key)
	if len(name) > maxFileName {
		return "", storageDomain.NewStorageError(
			storageDomain.ReasonInvalidKey,
			fmt.Errorf("key too long: %d bytes", len(key)),
		)
	}
	return filepath.Join(s.root, name), nil
}

// Put encrypts value and replaces the file for key atomically. A reader sees
// either the previous value or the new one, never a partial file.
func (s *EncryptedFileStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}

	km, err := s.provider.GetOrCreate(ctx)
	if err != nil {
		return fmt.Errorf("obtain key: %w", err)
	}
	defer km.Destroy()

	blob, err := s.codec.Encrypt(km, value)
	if err != nil {
		return err
	}
	data, err := blob.Marshal()
	if err != nil {
		return err
	}

	if err := s.replace(path, data); err != nil {
		return err
	}

	s.logger.Debug("value stored", slog.String("key", key), slog.String("key_id", km.ID))
	return nil
}

// replace writes data to a temp file in the root, syncs it and renames it over
// path. The temp file is removed on every failure path.
func (s *EncryptedFileStore) replace(path string, data []byte) error {
	if err := os.MkdirAll(s.root, dirPerm); err != nil {
		return storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}

	tmp, err := os.CreateTemp(s.root, tempPattern)
	if err != nil {
		return storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}
	if err := tmp.Close(); err != nil {
		return storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}
	if err := atomic.ReplaceFile(tmp.Name(), path); err != nil {
		return storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}
	committed = true

	syncDir(s.root)
	return nil
}

// syncDir flushes the directory entry of a rename. Not every platform can
// fsync a directory, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// Get returns the decrypted value for key, or a *NotFoundError.
func (s *EncryptedFileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storageDomain.NewNotFoundError(key)
	}
	if err != nil {
		return nil, storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}

	blob, err := storageDomain.ParseStoredBlob(data)
	if err != nil {
		return nil, err
	}

	km, err := s.provider.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain key: %w", err)
	}
	defer km.Destroy()

	plaintext, err := s.codec.Decrypt(km, blob)
	if err != nil {
		s.logger.Warn("stored value failed authentication", slog.String("key", key))
		return nil, err
	}
	return plaintext, nil
}

// Delete removes the file for key. Deleting an absent key succeeds.
func (s *EncryptedFileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}
	return nil
}

// Keys returns the stored logical keys in sorted order. Files whose names are
// not encoded keys are ignored.
func (s *EncryptedFileStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, storageDomain.NewStorageError(storageDomain.ReasonIO, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		key, err := DecodeFileName(e.Name())
		if err != nil || key == "" {
			s.logger.Debug("skipping foreign file", slog.String("name", e.Name()))
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}
