package domain

import (
	"encoding/base64"
	"encoding/json"

	cryptoDomain "github.com/allisson/frodo/internal/crypto/domain"
)

// StoredBlob is one encrypted value at rest. It is serialized as
//
//	{"nonce":"<base64>","ciphertext":"<base64>"}
//
// with an "alg" member only when the cipher is not AES-GCM. Ciphertext carries
// the 16-byte authentication tag at its end.
type StoredBlob struct {
	Nonce      string                 `json:"nonce"`
	Ciphertext string                 `json:"ciphertext"`
	Algorithm  cryptoDomain.Algorithm `json:"alg,omitempty"`
}

// Marshal encodes the blob as compact JSON.
func (b *StoredBlob) Marshal() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, NewStorageError(ReasonSerialization, err)
	}
	return data, nil
}

// ParseStoredBlob decodes a blob written by Marshal. Missing fields are a
// malformed blob, not an empty value.
func ParseStoredBlob(data []byte) (*StoredBlob, error) {
	var b StoredBlob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, NewStorageError(ReasonMalformedBlob, err)
	}
	if b.Nonce == "" || b.Ciphertext == "" {
		return nil, NewStorageError(ReasonMalformedBlob, nil)
	}
	return &b, nil
}

// EncodeBytes renders b as URL-safe base64 without padding.
func EncodeBytes(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBytes accepts URL-safe or standard base64, padded or not.
func DecodeBytes(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
