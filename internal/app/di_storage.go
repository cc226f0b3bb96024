package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
	storageRepository "github.com/allisson/frodo/internal/storage/repository"
	storageService "github.com/allisson/frodo/internal/storage/service"
)

// BlobCodec returns the codec sealing stored values.
func (c *Container) BlobCodec() (storageService.BlobCodec, error) {
	var err error
	c.blobCodecInit.Do(func() {
		c.blobCodec, err = c.initBlobCodec()
		if err != nil {
			c.initErrors["blobCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobCodec"]; exists {
		return nil, storedErr
	}
	return c.blobCodec, nil
}

// SecureStore returns the encrypted file store, instrumented with business metrics.
func (c *Container) SecureStore() (storageDomain.SecureStore, error) {
	var err error
	c.secureStoreInit.Do(func() {
		c.secureStore, err = c.initSecureStore()
		if err != nil {
			c.initErrors["secureStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secureStore"]; exists {
		return nil, storedErr
	}
	return c.secureStore, nil
}

// initBlobCodec creates the blob codec for the configured cipher.
func (c *Container) initBlobCodec() (storageService.BlobCodec, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cipher algorithm: %w", err)
	}
	return storageService.NewBlobCodec(c.AEADManager(), alg), nil
}

// initSecureStore creates the encrypted file store rooted at the data dir.
func (c *Container) initSecureStore() (storageDomain.SecureStore, error) {
	keyProvider, err := c.KeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key provider for secure store: %w", err)
	}

	codec, err := c.BlobCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob codec for secure store: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secure store: %w", err)
	}

	store := storageRepository.NewEncryptedFileStore(c.config.DataDir, keyProvider, codec, c.Logger())
	return storageRepository.NewSecureStoreWithMetrics(store, businessMetrics), nil
}
