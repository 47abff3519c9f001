package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultBytes is the entropy of a generated transfer token.
// 32 bytes encodes to 43 URL-safe characters.
const DefaultBytes = 32

// Generate returns a cryptographically random, URL-safe opaque token
func Generate() (string, error) {
	return GenerateN(DefaultBytes)
}

// GenerateN returns a token built from n random bytes
func GenerateN(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
