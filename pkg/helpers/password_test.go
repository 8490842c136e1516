package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw1")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", hash)

	require.True(t, CheckPassword(hash, "pw1"))
	require.False(t, CheckPassword(hash, "pw2"))
}

func TestCheckPasswordGarbageHash(t *testing.T) {
	t.Parallel()

	// never panics or errors, just reports a mismatch
	require.False(t, CheckPassword("not-a-bcrypt-hash", "pw1"))
}

func TestHashPasswordSalted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
