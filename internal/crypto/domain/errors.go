package domain

import (
	"github.com/allisson/frodo/internal/errors"
)

// Cipher errors.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates key material is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates AEAD open failed. The cause (wrong key,
	// tampered bytes, truncated record) is deliberately not distinguished.
	ErrDecryptionFailed = errors.Wrap(errors.ErrStorage, "decrypt failed")
)

// Key provider errors. All of them wrap errors.ErrKey.
var (
	// ErrKeyBackendUnavailable indicates the secret backend (OS keyring, KMS
	// keeper, key file) could not be reached or refused the operation.
	ErrKeyBackendUnavailable = errors.Wrap(errors.ErrKey, "key backend unavailable")

	// ErrKeyCorrupt indicates a stored secret could not be decoded to KeySize bytes.
	ErrKeyCorrupt = errors.Wrap(errors.ErrKey, "stored key is corrupt")

	// ErrKeyGenerationFailed indicates the CSPRNG failed to produce a key.
	ErrKeyGenerationFailed = errors.Wrap(errors.ErrKey, "key generation failed")
)
