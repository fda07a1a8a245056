package crypto

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandomString returns a 256-bit random value encoded as base64,
// suitable for api keys.
func GenerateRandomString() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}
