package domain

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/frodo/internal/errors"
)

func TestGenerateKeyMaterial(t *testing.T) {
	a, err := GenerateKeyMaterial("default")
	require.NoError(t, err)
	b, err := GenerateKeyMaterial("default")
	require.NoError(t, err)

	assert.Equal(t, "default", a.ID)
	assert.NotEqual(t, a.Bytes, b.Bytes)
	assert.NotEqual(t, [KeySize]byte{}, a.Bytes)
}

func TestDecodeKeyMaterial(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		km, err := GenerateKeyMaterial("data-key")
		require.NoError(t, err)

		decoded, err := DecodeKeyMaterial("data-key", km.Encode())
		require.NoError(t, err)
		assert.Equal(t, km.Bytes, decoded.Bytes)
		assert.Equal(t, "data-key", decoded.ID)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := DecodeKeyMaterial("data-key", "abcd")
		assert.ErrorIs(t, err, ErrKeyCorrupt)
		assert.ErrorIs(t, err, apperrors.ErrKey)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DecodeKeyMaterial("data-key", "%%%not-base64%%%")
		assert.ErrorIs(t, err, ErrKeyCorrupt)
	})

	t.Run("too long", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString(make([]byte, 48))
		_, err := DecodeKeyMaterial("data-key", encoded)
		assert.ErrorIs(t, err, ErrKeyCorrupt)
		assert.Contains(t, err.Error(), "got 48")
	})
}

func TestKeyMaterial_Key(t *testing.T) {
	km, err := GenerateKeyMaterial("default")
	require.NoError(t, err)

	key := km.Key()
	assert.Equal(t, km.Bytes[:], key)

	Zero(key)
	assert.NotEqual(t, [KeySize]byte{}, km.Bytes, "zeroing the copy must not touch the original")
}

func TestKeyMaterial_Clone(t *testing.T) {
	km, err := GenerateKeyMaterial("default")
	require.NoError(t, err)

	clone := km.Clone()
	km.Destroy()

	assert.Equal(t, [KeySize]byte{}, km.Bytes)
	assert.NotEqual(t, [KeySize]byte{}, clone.Bytes)
}

func TestKeyMaterial_Redaction(t *testing.T) {
	km, err := GenerateKeyMaterial("default")
	require.NoError(t, err)
	encoded := km.Encode()

	formatted := []string{
		fmt.Sprintf("%v", km),
		fmt.Sprintf("%v", *km),
		fmt.Sprintf("%+v", *km),
		fmt.Sprintf("%#v", *km),
		fmt.Sprintf("%s", km),
	}
	for _, s := range formatted {
		assert.Contains(t, s, "REDACTED")
		assert.NotContains(t, s, encoded)
		assert.NotContains(t, s, fmt.Sprint(km.Bytes[0], " ", km.Bytes[1]))
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("key loaded", slog.Any("key", km))

	assert.Contains(t, buf.String(), `"id":"default"`)
	assert.False(t, strings.Contains(buf.String(), encoded))
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr error
	}{
		{in: "", want: AESGCM},
		{in: "aes-gcm", want: AESGCM},
		{in: "chacha20-poly1305", want: ChaCha20},
		{in: "des", wantErr: ErrUnsupportedAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
