package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements AEAD with ChaCha20-Poly1305 (RFC 8439).
//
// ChaCha20 is a stream cipher built from add, rotate and xor, so it runs in
// constant time without hardware support. Pick it on CPUs lacking AES
// instructions. Blobs record their algorithm, so a store may hold both.
//
// Security properties:
//   - 256-bit key
//   - 12-byte nonce, random per Encrypt
//   - 16-byte Poly1305 tag appended to the ciphertext
//
// Thread safety:
//
//	Safe for concurrent use. Each Encrypt draws its own nonce.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a ChaCha20-Poly1305 cipher.
//
// key must be exactly 32 bytes. Returns ErrInvalidKeySize otherwise, or a
// wrapped error if the underlying cipher cannot be initialised.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 12-byte nonce.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	return seal(c.aead, plaintext, aad)
}

// Decrypt verifies the Poly1305 tag and opens ciphertext.
func (c *ChaCha20Poly1305Cipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	return open(c.aead, ciphertext, nonce, aad)
}

// NonceSize returns 12.
func (c *ChaCha20Poly1305Cipher) NonceSize() int {
	return c.aead.NonceSize()
}
