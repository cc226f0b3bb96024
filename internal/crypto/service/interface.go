// Package service provides the AEAD ciphers used by the blob codec and the
// KMS keeper used to wrap data keys at rest.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

// AEAD is an authenticated cipher bound to one key.
type AEAD interface {
	// Encrypt seals plaintext under a freshly drawn random nonce and returns
	// ciphertext (tag appended) and the nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext. Any authentication failure is an error.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length the cipher expects.
	NonceSize() int
}

// AEADManager builds AEAD instances for a key and algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Keeper wraps and unwraps small secrets with a key held elsewhere (a cloud
// KMS, Vault, or a local base64 key). *secrets.Keeper satisfies it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers from a URL such as base64key://, hashivault://,
// awskms://, gcpkms:// or azurekeyvault://.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (Keeper, error)
}
