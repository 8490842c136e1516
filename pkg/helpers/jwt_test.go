package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := &TokenManager{secret: []byte("super-secret"), ttl: 20 * time.Hour}

	tok, exp, err := m.Issue("user-123", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.WithinDuration(t, time.Now().Add(20*time.Hour), exp, 5*time.Second)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.UserID)
	require.Equal(t, "a@x.com", claims.Email)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	m := &TokenManager{secret: []byte("secret"), ttl: -time.Second}

	tok, _, err := m.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := &TokenManager{secret: []byte("right-secret"), ttl: time.Hour}
	verifier := &TokenManager{secret: []byte("wrong-secret"), ttl: time.Hour}

	tok, _, err := issuer.Issue("u2", "u2@x.com")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	m := &TokenManager{secret: []byte("k"), ttl: time.Hour}

	_, err := m.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyEmpty(t *testing.T) {
	t.Parallel()

	m := &TokenManager{secret: []byte("k"), ttl: time.Hour}

	_, err := m.Verify("")
	require.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerifyTampered(t *testing.T) {
	t.Parallel()

	m := &TokenManager{secret: []byte("k"), ttl: time.Hour}

	tok, _, err := m.Issue("u3", "u3@x.com")
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"
	_, err = m.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
