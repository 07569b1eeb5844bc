package invites_test

import (
	"testing"

	"studyhive/internal/invites"

	"github.com/stretchr/testify/require"
)

func TestGenerateTokenShape(t *testing.T) {
	token, err := invites.GenerateToken()
	require.NoError(t, err)
	require.Len(t, token, 43)

	for _, c := range token {
		urlSafe := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_'
		require.Truef(t, urlSafe, "token contains non URL-safe character %q", c)
	}
}

func TestGenerateTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := invites.GenerateToken()
		require.NoError(t, err)
		require.False(t, seen[token], "generated a duplicate token")
		seen[token] = true
	}
}

func TestHashToken(t *testing.T) {
	token, err := invites.GenerateToken()
	require.NoError(t, err)

	hash := invites.HashToken(token)
	require.Len(t, hash, 64)
	require.Equal(t, hash, invites.HashToken(token))

	other, err := invites.GenerateToken()
	require.NoError(t, err)
	require.NotEqual(t, hash, invites.HashToken(other))
}
