package invites

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"studyhive/pkg/utils"
)

// GenerateToken returns a URL-safe invite token with 256 bits of entropy
// (43 characters, base64url alphabet). Uniqueness is enforced by the unique
// constraint on the invites table, not here.
func GenerateToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", utils.ErrorHandler(err, "failed to generate invite token")
	}

	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}

// HashToken is the at-rest form of a token. Only the digest is persisted, so
// a leaked invites table does not leak usable invite links.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
