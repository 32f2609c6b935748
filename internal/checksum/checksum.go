package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Name returns the fingerprint of a bare name, used as the history lookup key.
// The name is hashed byte for byte; no normalization is applied.
func Name(name string) string {
	return Sum([]byte(name))
}
