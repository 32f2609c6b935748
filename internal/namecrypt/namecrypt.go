// Package namecrypt encrypts a previous file name with the current file name
// as key, so the history store does not hold names in clear text.
//
// This is obfuscation against casual inspection of the store: anyone who can
// see the current file name can recover its predecessor.
package namecrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/starford/fdn/internal/apperr"
)

// Cipher encrypts and decrypts names with a name-derived key.
// Decrypt(Encrypt(x, k), k) must return x for every valid x and k.
type Cipher interface {
	Encrypt(plain, key string) (string, error)
	Decrypt(text, key string) (string, error)
}

// AESGCM implements Cipher with AES-256-GCM. The key is the SHA-256 digest of
// the key name; the output is hex(nonce || ciphertext).
type AESGCM struct{}

// Verify AESGCM satisfies Cipher at compile time.
var _ Cipher = AESGCM{}

// Encrypt seals plain under key.
func (AESGCM) Encrypt(plain, key string) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("namecrypt: nonce: %w: %w", apperr.ErrCrypto, err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt opens text with key. A wrong key, malformed input or a plaintext
// that is not valid UTF-8 yields apperr.ErrCrypto.
func (AESGCM) Decrypt(text, key string) (string, error) {
	raw, err := hex.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("namecrypt: decode: %w: %w", apperr.ErrCrypto, err)
	}
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	ns := aead.NonceSize()
	if len(raw) < ns+aead.Overhead() {
		return "", fmt.Errorf("namecrypt: ciphertext too short: %w", apperr.ErrCrypto)
	}
	plain, err := aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("namecrypt: open: %w: %w", apperr.ErrCrypto, err)
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("namecrypt: plaintext is not UTF-8: %w", apperr.ErrCrypto)
	}
	return string(plain), nil
}

func newAEAD(key string) (cipher.AEAD, error) {
	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("namecrypt: cipher: %w: %w", apperr.ErrCrypto, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("namecrypt: gcm: %w: %w", apperr.ErrCrypto, err)
	}
	return aead, nil
}
