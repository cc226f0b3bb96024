package service

import (
	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

// AEADManagerService implements AEADManager by mapping an Algorithm to its
// cipher constructor.
//
// The blob codec asks it for a cipher per operation, using the algorithm
// recorded in the blob when decrypting, so one store can hold blobs sealed
// with either cipher. It is stateless and safe for concurrent use.
//
// Example usage:
//
//	c, err := NewAEADManager().CreateCipher(key, cryptoDomain.ChaCha20)
//	if errors.Is(err, cryptoDomain.ErrUnsupportedAlgorithm) {
//	    // unknown algorithm name in a blob
//	}
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher for alg.
// Returns ErrInvalidKeySize if key is not 32 bytes or ErrUnsupportedAlgorithm
// if alg is unknown.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
