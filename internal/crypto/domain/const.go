package domain

// Algorithm identifies the AEAD cipher used to seal a blob.
//
// Both algorithms use a 256-bit key, a 96-bit nonce and a 128-bit tag, so a
// store can switch between them without changing key material.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. It is the default and the
	// algorithm assumed for blobs that do not name one.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305, preferable on hosts without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every data key.
	KeySize = 32

	// NonceSize is the size in bytes of the per-encryption nonce.
	NonceSize = 12
)

// ParseAlgorithm maps a configuration string to an Algorithm. The empty string
// selects AESGCM.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
