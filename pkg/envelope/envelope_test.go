package envelope_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/envelope"
)

func newTestEncryptor(t *testing.T) *envelope.AESEncryptor {
	t.Helper()
	key := make([]byte, envelope.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	enc, err := envelope.NewAESEncryptor(key)
	require.NoError(t, err)
	return enc
}

func TestNewAESEncryptor_KeyLength(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := envelope.NewAESEncryptor(make([]byte, size))
		assert.ErrorIs(t, err, envelope.ErrInvalidMasterKey, "key size %d", size)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()

	enc := newTestEncryptor(t)
	ctx := context.Background()

	sealed, err := enc.Encrypt(ctx, "JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	assert.Equal(t, envelope.AlgorithmAES256GCM, sealed.Algorithm)
	assert.NotEmpty(t, sealed.Ciphertext)
	assert.NotEmpty(t, sealed.WrappedKey)
	assert.NotContains(t, string(sealed.Ciphertext), "JBSWY3DPEHPK3PXP")

	plaintext, err := enc.Decrypt(ctx, sealed)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", plaintext)
}

func TestEncrypt_FreshDataKeyPerCall(t *testing.T) {
	t.Parallel()

	enc := newTestEncryptor(t)
	ctx := context.Background()

	a, err := enc.Encrypt(ctx, "SECRET")
	require.NoError(t, err)
	b, err := enc.Encrypt(ctx, "SECRET")
	require.NoError(t, err)

	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
	assert.NotEqual(t, a.WrappedKey, b.WrappedKey)
}

func TestDecrypt_Failures(t *testing.T) {
	t.Parallel()

	enc := newTestEncryptor(t)
	other := newTestEncryptor(t)
	ctx := context.Background()

	sealed, err := enc.Encrypt(ctx, "SECRET")
	require.NoError(t, err)

	t.Run("wrong algorithm tag", func(t *testing.T) {
		t.Parallel()
		bad := sealed
		bad.Algorithm = "rot13"
		_, err := enc.Decrypt(ctx, bad)
		assert.ErrorIs(t, err, envelope.ErrUnsupportedAlgorithm)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		t.Parallel()
		bad := sealed
		bad.Ciphertext = append([]byte(nil), sealed.Ciphertext...)
		bad.Ciphertext[len(bad.Ciphertext)-1] ^= 0xff
		_, err := enc.Decrypt(ctx, bad)
		assert.ErrorIs(t, err, envelope.ErrInvalidCiphertext)
	})

	t.Run("truncated wrapped key", func(t *testing.T) {
		t.Parallel()
		bad := sealed
		bad.WrappedKey = sealed.WrappedKey[:4]
		_, err := enc.Decrypt(ctx, bad)
		assert.ErrorIs(t, err, envelope.ErrInvalidCiphertext)
	})

	t.Run("different master key", func(t *testing.T) {
		t.Parallel()
		_, err := other.Decrypt(ctx, sealed)
		assert.ErrorIs(t, err, envelope.ErrInvalidCiphertext)
	})
}

func TestGenerateMasterKey(t *testing.T) {
	t.Parallel()

	encoded, err := envelope.GenerateMasterKey()
	require.NoError(t, err)

	key, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Len(t, key, envelope.KeySize)
}

func TestConfigDecodeMasterKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "empty", key: "", wantErr: envelope.ErrMasterKeyNotConfigured},
		{name: "not base64", key: "%%%", wantErr: envelope.ErrInvalidMasterKey},
		{name: "wrong length", key: base64.StdEncoding.EncodeToString([]byte("short")), wantErr: envelope.ErrInvalidMasterKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := envelope.Config{MasterKey: tt.key}.DecodeMasterKey()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	encoded, err := envelope.GenerateMasterKey()
	require.NoError(t, err)
	key, err := envelope.Config{MasterKey: encoded}.DecodeMasterKey()
	require.NoError(t, err)
	assert.Len(t, key, envelope.KeySize)
}
