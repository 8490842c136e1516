package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMissing means no token was presented at all.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid covers bad signatures, expired tokens and garbage input.
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenManager issues and verifies signed identity assertions. The secret and
// the validity window are fixed for the process lifetime; verification is a
// pure function of (token, secret, clock) with no server-side state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

var defaultManager *TokenManager

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	m := &TokenManager{secret: []byte(secret), ttl: ttl}
	defaultManager = m
	return m
}

// DefaultTokenManager returns the last constructed TokenManager (used for auto-wiring routes)
func DefaultTokenManager() *TokenManager { return defaultManager }

// Claims is the decoded token payload the middleware hands to handlers.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a token carrying the user's identity, valid from now until
// now plus the configured window.
func (m *TokenManager) Issue(userID, email string) (string, time.Time, error) {
	exp := time.Now().Add(m.ttl)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Verify checks the signature and the expiry and returns the embedded claims.
// Any failure, including expiry, comes back as ErrTokenInvalid.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
