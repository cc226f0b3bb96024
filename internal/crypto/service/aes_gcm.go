package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

// AESGCMCipher implements AEAD with AES-256-GCM.
//
// It is the default cipher for new blobs. AES-GCM runs on the AES-NI and ARMv8
// crypto extensions found on nearly every desktop and server CPU.
//
// Security properties:
//   - 256-bit key, checked at construction
//   - 12-byte nonce read from crypto/rand on every Encrypt
//   - 16-byte authentication tag appended to the ciphertext
//   - optional AAD is authenticated but not encrypted
//
// Thread safety:
//
//	The cipher holds no mutable state and is safe for concurrent use. Random
//	nonces keep the collision bound at about 2^32 messages per key, far above
//	what a local store writes.
//
// Example usage:
//
//	km, err := provider.GetOrCreate(ctx)
//	if err != nil {
//	    return err
//	}
//	key := km.Key()
//	defer cryptoDomain.Zero(key)
//
//	c, err := NewAESGCM(key)
//	if err != nil {
//	    return err
//	}
//	ciphertext, nonce, err := c.Encrypt(plaintext, nil)
//
//	// Decrypt needs the same AAD, nil here.
//	plaintext, err := c.Decrypt(ciphertext, nonce, nil)
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates an AES-256-GCM cipher.
//
// key must be exactly 32 bytes, otherwise ErrInvalidKeySize is returned. The
// key is expanded into the AES schedule, so the caller may zero its slice
// once NewAESGCM returns.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext. A new nonce is read from crypto/rand on every
// call; nonces are never derived from content.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	return seal(a.aead, plaintext, aad)
}

// Decrypt opens ciphertext, failing on a wrong key, wrong nonce, mismatched
// AAD or any modified byte.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	return open(a.aead, ciphertext, nonce, aad)
}

// NonceSize returns 12.
func (a *AESGCMCipher) NonceSize() int {
	return a.aead.NonceSize()
}

func seal(aead cipher.AEAD, plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

func open(aead cipher.AEAD, ciphertext, nonce, aad []byte) ([]byte, error) {
	// cipher.AEAD.Open panics on a wrong-sized nonce.
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf(
			"%w: nonce must be %d bytes, got %d",
			cryptoDomain.ErrDecryptionFailed,
			aead.NonceSize(),
			len(nonce),
		)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
