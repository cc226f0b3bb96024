// Package testutil provides fixtures for tests that need a real encrypted
// store on disk.
//
// Store Setup:
//
//	store, root := testutil.NewFileStore(t)
//	tasks := testutil.NewTaskCollection(t, store, root)
//
// Every fixture lives under t.TempDir() and is removed with the test.
package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
	"github.com/allisson/frodo/internal/crypto/provider"
	cryptoService "github.com/allisson/frodo/internal/crypto/service"
	"github.com/allisson/frodo/internal/filelock"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
	"github.com/allisson/frodo/internal/storage/repository"
	storageService "github.com/allisson/frodo/internal/storage/service"
	tasksDomain "github.com/allisson/frodo/internal/tasks/domain"
)

// LocalKeeperURI returns a base64key:// keeper URL for a fresh random key.
func LocalKeeperURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

// NewFileStore returns an AES-GCM encrypted file store rooted in a temp dir,
// keyed by a MemoryProvider, along with the root.
func NewFileStore(t *testing.T) (*repository.EncryptedFileStore, string) {
	t.Helper()
	return NewFileStoreWithProvider(t, provider.NewMemoryProvider(), cryptoDomain.AESGCM)
}

// NewFileStoreWithProvider is NewFileStore with an explicit key provider and
// cipher.
func NewFileStoreWithProvider(
	t *testing.T,
	keyProvider provider.KeyProvider,
	alg cryptoDomain.Algorithm,
) (*repository.EncryptedFileStore, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "data")
	codec := storageService.NewBlobCodec(cryptoService.NewAEADManager(), alg)
	return repository.NewEncryptedFileStore(root, keyProvider, codec, nil), root
}

// NewTaskCollection returns the task collection over store, locked by a file
// in root.
func NewTaskCollection(
	t *testing.T,
	store storageDomain.SecureStore,
	root string,
) *repository.Collection[tasksDomain.Task] {
	t.Helper()
	lock := filelock.New(filepath.Join(root, ".tasks.lock"), 2*time.Second)
	return repository.NewCollection[tasksDomain.Task](store, tasksDomain.CollectionKey, lock)
}

// DataFiles lists the regular, non-hidden files in root, sorted. Lock files
// and leftovers such as temp files show up as hidden or not at all, so a
// clean store lists exactly one file per key.
func DataFiles(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

// TempFiles lists leftover temp files from interrupted writes in root.
func TempFiles(t *testing.T, root string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(root, ".tmp-*"))
	require.NoError(t, err)
	return matches
}
