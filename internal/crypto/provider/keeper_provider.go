package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
	cryptoService "github.com/allisson/frodo/internal/crypto/service"
	"github.com/allisson/frodo/internal/filelock"
)

// KeeperConfig locates the wrapped key file and the keeper that wraps it.
type KeeperConfig struct {
	// KeyURI names the keeper, e.g. base64key://... or hashivault://mykey.
	KeyURI string
	// Path is the file holding the wrapped data key.
	Path        string
	LockTimeout time.Duration
}

// KeeperProvider stores the data key in a file, encrypted by a KMS keeper
// (envelope encryption). Creating the file uses a hard link from a fully
// written temp file, which fails if the file exists; this is a native
// set-if-absent, so the first writer wins and everyone else reads its key.
type KeeperProvider struct {
	kms    cryptoService.KMSService
	keyURI string
	path   string
	id     string
	lock   *filelock.Lock
	logger *slog.Logger

	keeperMu sync.Mutex
	keeper   cryptoService.Keeper
	slot     keySlot
}

// NewKeeperProvider creates a KeeperProvider.
func NewKeeperProvider(kms cryptoService.KMSService, cfg KeeperConfig, logger *slog.Logger) *KeeperProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeeperProvider{
		kms:    kms,
		keyURI: cfg.KeyURI,
		path:   cfg.Path,
		id:     "keeper:" + filepath.Base(cfg.Path),
		lock:   filelock.New(cfg.Path+".lock", cfg.LockTimeout),
		logger: logger,
	}
}

// GetOrCreate unwraps the stored key, creating and wrapping a new one if the
// key file does not exist.
func (p *KeeperProvider) GetOrCreate(ctx context.Context) (*cryptoDomain.KeyMaterial, error) {
	return p.slot.get(ctx, p.load)
}

func (p *KeeperProvider) load(ctx context.Context) (*cryptoDomain.KeyMaterial, error) {
	keeper, err := p.openKeeper(ctx)
	if err != nil {
		return nil, err
	}

	if km, err := p.read(ctx, keeper); err != nil || km != nil {
		return km, err
	}

	unlock, err := p.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}
	defer unlock()

	if km, err := p.read(ctx, keeper); err != nil || km != nil {
		return km, err
	}

	km, err := cryptoDomain.GenerateKeyMaterial(p.id)
	if err != nil {
		return nil, err
	}

	raw := km.Key()
	wrapped, err := keeper.Encrypt(ctx, raw)
	cryptoDomain.Zero(raw)
	if err != nil {
		km.Destroy()
		return nil, fmt.Errorf("%w: wrap key: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}

	won, err := p.createIfAbsent([]byte(base64.StdEncoding.EncodeToString(wrapped)))
	if err != nil {
		km.Destroy()
		return nil, err
	}
	if !won {
		km.Destroy()
		p.logger.Debug("key file created concurrently, reading winner", slog.String("key_id", p.id))
		return p.mustRead(ctx, keeper)
	}

	p.logger.Info("generated data key", slog.String("key_id", p.id), slog.String("path", p.path))
	return km, nil
}

func (p *KeeperProvider) read(ctx context.Context, keeper cryptoService.Keeper) (*cryptoDomain.KeyMaterial, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read key file: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}

	wrapped, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: key file is not base64: %v", cryptoDomain.ErrKeyCorrupt, err)
	}

	raw, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrap key: %v", cryptoDomain.ErrKeyCorrupt, err)
	}
	defer cryptoDomain.Zero(raw)

	return cryptoDomain.KeyMaterialFromBytes(p.id, raw)
}

func (p *KeeperProvider) mustRead(ctx context.Context, keeper cryptoService.Keeper) (*cryptoDomain.KeyMaterial, error) {
	km, err := p.read(ctx, keeper)
	if err != nil {
		return nil, err
	}
	if km == nil {
		return nil, fmt.Errorf("%w: key file vanished after creation", cryptoDomain.ErrKeyBackendUnavailable)
	}
	return km, nil
}

// createIfAbsent writes data to a temp file beside p.path and links it into
// place. It reports false if p.path already existed.
func (p *KeeperProvider) createIfAbsent(data []byte) (bool, error) {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return false, fmt.Errorf("%w: create key dir: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-key-*")
	if err != nil {
		return false, fmt.Errorf("%w: create temp key file: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return false, fmt.Errorf("%w: write temp key file: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		return false, fmt.Errorf("%w: sync temp key file: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("%w: close temp key file: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}

	if err := os.Link(tmp.Name(), p.path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: link key file: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}
	return true, nil
}

func (p *KeeperProvider) openKeeper(ctx context.Context) (cryptoService.Keeper, error) {
	p.keeperMu.Lock()
	defer p.keeperMu.Unlock()

	if p.keeper != nil {
		return p.keeper, nil
	}

	keeper, err := p.kms.OpenKeeper(ctx, p.keyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}
	p.keeper = keeper
	return keeper, nil
}

// Close zeroes the cached key and closes the keeper.
func (p *KeeperProvider) Close() error {
	p.slot.destroy()

	p.keeperMu.Lock()
	defer p.keeperMu.Unlock()
	if p.keeper == nil {
		return nil
	}
	err := p.keeper.Close()
	p.keeper = nil
	return err
}
