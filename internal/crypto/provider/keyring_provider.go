package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/99designs/keyring"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
	"github.com/allisson/frodo/internal/filelock"
)

// KeyringOpener opens the OS secret store. It is called lazily on first use
// so a missing backend surfaces as ErrKeyBackendUnavailable from GetOrCreate.
type KeyringOpener func() (keyring.Keyring, error)

// KeyringConfig selects the OS secret store and the entry holding the key.
type KeyringConfig struct {
	// Service and Account identify the single stored secret.
	Service string
	Account string
	// Backends restricts the keyring backends tried, e.g. "secret-service",
	// "keychain", "wincred", "file". Empty means every available backend.
	Backends []string
	// FileDir and FilePassword configure the encrypted-file fallback backend.
	FileDir      string
	FilePassword string
	// LockPath, when set, is a lock file held while creating the key so that
	// two processes starting at once cannot both write one.
	LockPath    string
	LockTimeout time.Duration
}

// OpenKeyring returns a KeyringOpener for cfg.
func OpenKeyring(cfg KeyringConfig) KeyringOpener {
	return func() (keyring.Keyring, error) {
		kcfg := keyring.Config{
			ServiceName:              cfg.Service,
			KeychainTrustApplication: true,
			LibSecretCollectionName:  "login",
			FileDir:                  cfg.FileDir,
		}
		for _, b := range cfg.Backends {
			kcfg.AllowedBackends = append(kcfg.AllowedBackends, keyring.BackendType(b))
		}
		if cfg.FilePassword != "" {
			kcfg.FilePasswordFunc = keyring.FixedStringPrompt(cfg.FilePassword)
		}
		return keyring.Open(kcfg)
	}
}

// KeyringProvider keeps the data key in the OS secret store as base64 of the
// raw 32 bytes, under (Service, Account). The key id is the account name.
type KeyringProvider struct {
	open    KeyringOpener
	account string
	lock    *filelock.Lock
	logger  *slog.Logger

	ringMu sync.Mutex
	ring   keyring.Keyring
	slot   keySlot
}

// NewKeyringProvider creates a KeyringProvider. open is typically
// OpenKeyring(cfg); tests pass a keyring.ArrayKeyring.
func NewKeyringProvider(open KeyringOpener, cfg KeyringConfig, logger *slog.Logger) *KeyringProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyringProvider{
		open:    open,
		account: cfg.Account,
		lock:    filelock.New(cfg.LockPath, cfg.LockTimeout),
		logger:  logger,
	}
}

// GetOrCreate reads the key from the keyring, generating and storing one if
// the entry is absent.
func (p *KeyringProvider) GetOrCreate(ctx context.Context) (*cryptoDomain.KeyMaterial, error) {
	return p.slot.get(ctx, p.load)
}

func (p *KeyringProvider) load(ctx context.Context) (*cryptoDomain.KeyMaterial, error) {
	ring, err := p.keyring()
	if err != nil {
		return nil, err
	}

	if km, err := p.read(ring); err != nil || km != nil {
		return km, err
	}

	unlock, err := p.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}
	defer unlock()

	// Another process may have stored a key while we waited for the lock.
	if km, err := p.read(ring); err != nil || km != nil {
		return km, err
	}

	km, err := cryptoDomain.GenerateKeyMaterial(p.account)
	if err != nil {
		return nil, err
	}

	item := keyring.Item{
		Key:         p.account,
		Data:        []byte(km.Encode()),
		Label:       p.account,
		Description: "frodo data encryption key",
	}
	if err := ring.Set(item); err != nil {
		km.Destroy()
		return nil, fmt.Errorf("%w: store key: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}

	p.logger.Info("generated data key", slog.String("key_id", km.ID))
	return km, nil
}

// read returns (nil, nil) when the entry does not exist.
func (p *KeyringProvider) read(ring keyring.Keyring) (*cryptoDomain.KeyMaterial, error) {
	item, err := ring.Get(p.account)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read key: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}

	km, err := cryptoDomain.DecodeKeyMaterial(p.account, string(item.Data))
	if err != nil {
		return nil, err
	}

	p.logger.Debug("loaded data key", slog.String("key_id", km.ID))
	return km, nil
}

func (p *KeyringProvider) keyring() (keyring.Keyring, error) {
	p.ringMu.Lock()
	defer p.ringMu.Unlock()

	if p.ring != nil {
		return p.ring, nil
	}

	ring, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("%w: open keyring: %v", cryptoDomain.ErrKeyBackendUnavailable, err)
	}
	p.ring = ring
	return ring, nil
}

// Close zeroes the cached key. The keyring entry is left in place.
func (p *KeyringProvider) Close() error {
	p.slot.destroy()
	return nil
}
