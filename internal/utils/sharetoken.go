package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateShareToken returns a 64-character hex token carrying 256 bits of
// entropy, used as the capability for the customer share link.
func GenerateShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
