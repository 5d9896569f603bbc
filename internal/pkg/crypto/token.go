package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenEntropy is the number of random bytes per token.
const tokenEntropy = 32

// NewToken generates a cryptographically random opaque token. The
// base64url alphabet keeps the token embeddable in a URL without
// escaping.
func NewToken() (string, error) {
	buf := make([]byte, tokenEntropy)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
