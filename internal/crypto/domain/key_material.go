// Package domain defines the key material and cipher vocabulary shared by the
// key providers and the blob codec.
package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
)

// KeyMaterial is a 256-bit data key plus a non-secret label.
//
// ID is stable for the lifetime of the key and safe to log. Bytes must never
// be logged or formatted; String, GoString and LogValue all redact it.
type KeyMaterial struct {
	ID    string
	Bytes [KeySize]byte
}

// GenerateKeyMaterial draws a fresh key from crypto/rand.
func GenerateKeyMaterial(id string) (*KeyMaterial, error) {
	km := &KeyMaterial{ID: id}
	if _, err := rand.Read(km.Bytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
	}
	return km, nil
}

// DecodeKeyMaterial parses the base64 (standard encoding) form written by
// Encode. Anything that does not decode to exactly KeySize bytes is corrupt.
func DecodeKeyMaterial(id, encoded string) (*KeyMaterial, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyCorrupt, err)
	}
	defer Zero(raw)
	return KeyMaterialFromBytes(id, raw)
}

// KeyMaterialFromBytes copies raw into a new KeyMaterial. The caller keeps
// ownership of raw and should zero it.
func KeyMaterialFromBytes(id string, raw []byte) (*KeyMaterial, error) {
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrKeyCorrupt, KeySize, len(raw))
	}
	km := &KeyMaterial{ID: id}
	copy(km.Bytes[:], raw)
	return km, nil
}

// Encode returns the base64 (standard encoding) form stored in secret backends.
func (k *KeyMaterial) Encode() string {
	return base64.StdEncoding.EncodeToString(k.Bytes[:])
}

// Key returns a copy of the key bytes for handing to a cipher constructor.
// Zero it when done.
func (k *KeyMaterial) Key() []byte {
	out := make([]byte, KeySize)
	copy(out, k.Bytes[:])
	return out
}

// Clone returns an independent copy.
func (k *KeyMaterial) Clone() *KeyMaterial {
	c := *k
	return &c
}

// Destroy zeroes the key bytes in place.
func (k *KeyMaterial) Destroy() {
	Zero(k.Bytes[:])
}

func (k KeyMaterial) String() string {
	return fmt.Sprintf("KeyMaterial{ID:%q, Bytes:[REDACTED]}", k.ID)
}

func (k KeyMaterial) GoString() string {
	return k.String()
}

// LogValue implements slog.LogValuer.
func (k KeyMaterial) LogValue() slog.Value {
	return slog.GroupValue(slog.String("id", k.ID))
}
