package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewCipher_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := NewAESGCM(make([]byte, size))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize, "aes-gcm size %d", size)

		_, err = NewChaCha20Poly1305(make([]byte, size))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize, "chacha20 size %d", size)
	}
}

func TestCiphers(t *testing.T) {
	constructors := map[string]func(key []byte) (AEAD, error){
		"aes-gcm": func(key []byte) (AEAD, error) { return NewAESGCM(key) },
		"chacha20-poly1305": func(key []byte) (AEAD, error) {
			return NewChaCha20Poly1305(key)
		},
	}

	for name, newCipher := range constructors {
		t.Run(name, func(t *testing.T) {
			key := randomKey(t)
			c, err := newCipher(key)
			require.NoError(t, err)
			assert.Equal(t, cryptoDomain.NonceSize, c.NonceSize())

			t.Run("round trip", func(t *testing.T) {
				for _, plaintext := range [][]byte{
					{},
					[]byte("hello"),
					{0x00, 0x01, 0xFF, 0xFE},
					bytes.Repeat([]byte("x"), 1<<16),
				} {
					ciphertext, nonce, err := c.Encrypt(plaintext, nil)
					require.NoError(t, err)
					assert.Len(t, nonce, cryptoDomain.NonceSize)
					assert.Len(t, ciphertext, len(plaintext)+16)

					decrypted, err := c.Decrypt(ciphertext, nonce, nil)
					require.NoError(t, err)
					assert.Equal(t, len(plaintext), len(decrypted))
					assert.True(t, bytes.Equal(plaintext, decrypted))
				}
			})

			t.Run("fresh nonce on every call", func(t *testing.T) {
				plaintext := []byte("same input")
				ct1, n1, err := c.Encrypt(plaintext, nil)
				require.NoError(t, err)
				ct2, n2, err := c.Encrypt(plaintext, nil)
				require.NoError(t, err)

				assert.NotEqual(t, n1, n2)
				assert.NotEqual(t, ct1, ct2)
			})

			t.Run("aad is authenticated", func(t *testing.T) {
				ciphertext, nonce, err := c.Encrypt([]byte("payload"), []byte("tasks"))
				require.NoError(t, err)

				_, err = c.Decrypt(ciphertext, nonce, []byte("other"))
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("tampered ciphertext", func(t *testing.T) {
				ciphertext, nonce, err := c.Encrypt([]byte("payload"), nil)
				require.NoError(t, err)
				ciphertext[0] ^= 0x01

				_, err = c.Decrypt(ciphertext, nonce, nil)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("tampered nonce", func(t *testing.T) {
				ciphertext, nonce, err := c.Encrypt([]byte("payload"), nil)
				require.NoError(t, err)
				nonce[len(nonce)-1] ^= 0x80

				_, err = c.Decrypt(ciphertext, nonce, nil)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("truncated ciphertext", func(t *testing.T) {
				ciphertext, nonce, err := c.Encrypt([]byte("payload"), nil)
				require.NoError(t, err)

				_, err = c.Decrypt(ciphertext[:5], nonce, nil)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("short nonce does not panic", func(t *testing.T) {
				ciphertext, _, err := c.Encrypt([]byte("payload"), nil)
				require.NoError(t, err)

				assert.NotPanics(t, func() {
					_, err = c.Decrypt(ciphertext, []byte{1, 2, 3}, nil)
				})
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("wrong key", func(t *testing.T) {
				ciphertext, nonce, err := c.Encrypt([]byte("payload"), nil)
				require.NoError(t, err)

				other, err := newCipher(randomKey(t))
				require.NoError(t, err)
				_, err = other.Decrypt(ciphertext, nonce, nil)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})
		})
	}
}
