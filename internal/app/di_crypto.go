package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/allisson/frodo/internal/config"
	"github.com/allisson/frodo/internal/crypto/provider"
	cryptoService "github.com/allisson/frodo/internal/crypto/service"
)

type closableKeyProvider interface {
	provider.KeyProvider
	io.Closer
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = c.initAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// KeyProvider returns the data key provider selected by the key backend.
func (c *Container) KeyProvider() (provider.KeyProvider, error) {
	var err error
	c.keyProviderInit.Do(func() {
		c.keyProvider, err = c.initKeyProvider()
		if err != nil {
			c.initErrors["keyProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyProvider"]; exists {
		return nil, storedErr
	}
	return c.keyProvider, nil
}

// initAEADManager creates the AEAD manager service.
func (c *Container) initAEADManager() cryptoService.AEADManager {
	return cryptoService.NewAEADManager()
}

// initKMSService creates the KMS service used to wrap the data key.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}

// initKeyProvider creates the key provider for the configured backend.
// No backend is contacted until the first GetOrCreate.
func (c *Container) initKeyProvider() (closableKeyProvider, error) {
	logger := c.Logger()

	switch c.config.KeyBackend {
	case config.KeyBackendMemory:
		return provider.NewMemoryProvider(), nil
	case config.KeyBackendKeyring:
		cfg := provider.KeyringConfig{
			Service:      c.config.KeyringService,
			Account:      c.config.KeyringAccount,
			Backends:     c.config.KeyringBackends,
			FileDir:      c.config.KeyringFileDir,
			FilePassword: c.config.KeyringFilePassword,
			LockPath:     c.config.KeyringLockFile(),
			LockTimeout:  c.config.LockTimeout,
		}
		return provider.NewKeyringProvider(provider.OpenKeyring(cfg), cfg, logger), nil
	case config.KeyBackendKeeper:
		if c.config.KMSKeyURI == "" {
			return nil, errors.New("keeper key backend requires KMS_KEY_URI")
		}
		cfg := provider.KeeperConfig{
			KeyURI:      c.config.KMSKeyURI,
			Path:        c.config.KeeperKeyFile,
			LockTimeout: c.config.LockTimeout,
		}
		return provider.NewKeeperProvider(c.KMSService(), cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported key backend: %s", c.config.KeyBackend)
	}
}
