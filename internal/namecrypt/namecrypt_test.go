package namecrypt

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/fdn/internal/apperr"
)

func TestRoundTrip(t *testing.T) {
	c := AESGCM{}
	names := []string{"My File.txt", "", "résumé final", "日本語 ファイル.md", "a:b"}
	for _, name := range names {
		text, err := c.Encrypt(name, "My_File.txt")
		require.NoError(t, err)
		assert.NotContains(t, text, "File", "ciphertext must not leak the name")

		got, err := c.Decrypt(text, "My_File.txt")
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestEncrypt_Printable(t *testing.T) {
	text, err := AESGCM{}.Encrypt("x", "y")
	require.NoError(t, err)
	_, err = hex.DecodeString(text)
	assert.NoError(t, err, "ciphertext should be hex text")
}

func TestDecrypt_WrongKey(t *testing.T) {
	c := AESGCM{}
	text, err := c.Encrypt("old name", "new_name")
	require.NoError(t, err)

	_, err = c.Decrypt(text, "other_name")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrCrypto))
}

func TestDecrypt_Malformed(t *testing.T) {
	c := AESGCM{}
	for _, text := range []string{"not hex", "abcd", ""} {
		_, err := c.Decrypt(text, "k")
		assert.ErrorIs(t, err, apperr.ErrCrypto, "input %q", text)
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	c := AESGCM{}
	text, err := c.Encrypt("old", "new")
	require.NoError(t, err)

	raw, _ := hex.DecodeString(text)
	raw[len(raw)-1] ^= 0xff
	_, err = c.Decrypt(hex.EncodeToString(raw), "new")
	assert.ErrorIs(t, err, apperr.ErrCrypto)
}
