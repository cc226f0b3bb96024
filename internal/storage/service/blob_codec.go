// Package service turns plaintext values into sealed StoredBlobs and back.
package service

import (
	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
	cryptoService "github.com/allisson/frodo/internal/crypto/service"
	storageDomain "github.com/allisson/frodo/internal/storage/domain"
)

// BlobCodec seals and opens StoredBlobs with a caller-supplied key.
type BlobCodec interface {
	Encrypt(km *cryptoDomain.KeyMaterial, plaintext []byte) (*storageDomain.StoredBlob, error)
	Decrypt(km *cryptoDomain.KeyMaterial, blob *storageDomain.StoredBlob) ([]byte, error)
}

// AEADBlobCodec implements BlobCodec. New blobs are sealed with the configured
// algorithm; blobs are opened with whichever algorithm they name.
type AEADBlobCodec struct {
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewBlobCodec creates an AEADBlobCodec sealing with alg.
func NewBlobCodec(aeadManager cryptoService.AEADManager, alg cryptoDomain.Algorithm) *AEADBlobCodec {
	return &AEADBlobCodec{aeadManager: aeadManager, algorithm: alg}
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *AEADBlobCodec) Encrypt(
	km *cryptoDomain.KeyMaterial,
	plaintext []byte,
) (*storageDomain.StoredBlob, error) {
	cipher, err := c.cipher(km, c.algorithm)
	if err != nil {
		return nil, storageDomain.NewStorageError(storageDomain.ReasonEncryptFailed, err)
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return nil, storageDomain.NewStorageError(storageDomain.ReasonEncryptFailed, err)
	}

	blob := &storageDomain.StoredBlob{
		Nonce:      storageDomain.EncodeBytes(nonce),
		Ciphertext: storageDomain.EncodeBytes(ciphertext),
	}
	if c.algorithm != cryptoDomain.AESGCM {
		blob.Algorithm = c.algorithm
	}
	return blob, nil
}

// Decrypt opens blob. Every failure, including bad base64 and an unknown
// algorithm, is a StorageError with reason "decrypt failed".
func (c *AEADBlobCodec) Decrypt(
	km *cryptoDomain.KeyMaterial,
	blob *storageDomain.StoredBlob,
) ([]byte, error) {
	alg, err := cryptoDomain.ParseAlgorithm(string(blob.Algorithm))
	if err != nil {
		return nil, decryptFailed(err)
	}

	nonce, err := storageDomain.DecodeBytes(blob.Nonce)
	if err != nil {
		return nil, decryptFailed(err)
	}
	ciphertext, err := storageDomain.DecodeBytes(blob.Ciphertext)
	if err != nil {
		return nil, decryptFailed(err)
	}

	cipher, err := c.cipher(km, alg)
	if err != nil {
		return nil, decryptFailed(err)
	}

	plaintext, err := cipher.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return nil, decryptFailed(err)
	}
	return plaintext, nil
}

func (c *AEADBlobCodec) cipher(km *cryptoDomain.KeyMaterial, alg cryptoDomain.Algorithm) (cryptoService.AEAD, error) {
	key := km.Key()
	defer cryptoDomain.Zero(key)
	return c.aeadManager.CreateCipher(key, alg)
}

func decryptFailed(err error) error {
	return storageDomain.NewStorageError(storageDomain.ReasonDecryptFailed, err)
}
