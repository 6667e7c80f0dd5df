package common

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// NewURLSafeToken generates a random URL-safe bearer token carrying size
// bytes of entropy, encoded as unpadded base64url. Session tokens use
// size=32, well above the minimum entropy required for unguessability.
func NewURLSafeToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes generated before
// hex encoding, so the final string is twice as long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
