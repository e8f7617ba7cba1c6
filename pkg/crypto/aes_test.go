package crypto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestCipher(t *testing.T) *TokenCipher {
	t.Helper()
	c, err := NewTokenCipher(testHexKey)
	require.NoError(t, err)
	return c
}

func TestNewTokenCipher(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid 64 hex chars", key: testHexKey},
		{name: "surrounding whitespace", key: "  " + testHexKey + "\n"},
		{name: "empty key", key: "", wantErr: true},
		{name: "too short", key: testHexKey[:32], wantErr: true},
		{name: "not hex", key: strings.Repeat("zz", 32), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewTokenCipher(tt.key)
			if tt.wantErr {
				var cfgErr *ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNewTokenCipherFromBytes_WrongLength(t *testing.T) {
	_, err := NewTokenCipherFromBytes([]byte("1234567890123456"))
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "32 bytes")
}

func TestTokenCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	plaintexts := []string{
		"a",
		"AQXdSP_access_token_value",
		"中文令牌 🔐",
		strings.Repeat("x", 4096),
	}

	for _, p := range plaintexts {
		blob, err := c.Encrypt(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, blob)

		got, err := c.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestTokenCipher_Layout(t *testing.T) {
	c := newTestCipher(t)

	blob, err := c.Encrypt("hello")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)
	assert.Len(t, raw, NonceSize+TagSize+len("hello"))
}

func TestTokenCipher_FreshNonce(t *testing.T) {
	c := newTestCipher(t)

	a, err := c.Encrypt("same input")
	require.NoError(t, err)
	b, err := c.Encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestTokenCipher_EmptyValues(t *testing.T) {
	c := newTestCipher(t)

	blob, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, blob)

	plain, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestTokenCipher_DetectsEveryBitFlip(t *testing.T) {
	c := newTestCipher(t)

	blob, err := c.Encrypt("refresh-token-123")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	for i := 0; i < len(raw); i++ {
		for bit := 0; bit < 8; bit++ {
			mutated := append([]byte(nil), raw...)
			mutated[i] ^= 1 << bit

			_, err := c.Decrypt(base64.StdEncoding.EncodeToString(mutated))
			var cryptoErr *CryptoError
			require.ErrorAs(t, err, &cryptoErr, "byte %d bit %d", i, bit)
			assert.ErrorIs(t, err, ErrAuthentication)
		}
	}
}

func TestTokenCipher_DecryptErrors(t *testing.T) {
	c := newTestCipher(t)

	tests := []struct {
		name string
		blob string
		want error
	}{
		{name: "not base64", blob: "%%%not-base64%%%", want: ErrMalformed},
		{name: "shorter than nonce and tag", blob: base64.StdEncoding.EncodeToString(make([]byte, NonceSize+TagSize-1)), want: ErrTooShort},
		{name: "random bytes", blob: base64.StdEncoding.EncodeToString(make([]byte, 64)), want: ErrAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.blob)
			var cryptoErr *CryptoError
			require.ErrorAs(t, err, &cryptoErr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenCipher_WrongKey(t *testing.T) {
	c := newTestCipher(t)
	other, err := NewTokenCipher(strings.Repeat("ab", 32))
	require.NoError(t, err)

	blob, err := c.Encrypt("secret")
	require.NoError(t, err)

	_, err = other.Decrypt(blob)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestTokenCipher_Uninitialized(t *testing.T) {
	var c *TokenCipher

	_, err := c.Encrypt("x")
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = c.Decrypt("eA==")
	assert.ErrorAs(t, err, &cfgErr)
}
