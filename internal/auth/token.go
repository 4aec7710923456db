package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// claimsVersion gates the accepted token shape. Tokens issued with a
// different claims layout fail verification instead of being duck-typed.
const claimsVersion = 1

// SessionClaims is the fixed payload embedded in every session token.
// UserID and Email are required at decode time; a token missing either is
// rejected as malformed regardless of its signature.
type SessionClaims struct {
	UserID  string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Version int    `json:"ver"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed, time-limited session tokens.
// The secret is read-only after construction; rotating it invalidates all
// outstanding tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("signing secret is required")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &TokenCodec{secret: []byte(secret), ttl: ttl}, nil
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a fresh token for the given identity. Claims are immutable
// once issued; a new login always produces a new token.
func (c *TokenCodec) Issue(userID string, email string, name string, role string) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID:  userID,
		Email:   email,
		Name:    name,
		Role:    role,
		Version: claimsVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature and expiry and returns the decoded claims, or nil
// on any failure: forged signature, tampered payload, elapsed expiry, wrong
// signing method, or a payload missing required fields. Callers must treat
// "no session" and "bad session" identically.
func (c *TokenCodec) Verify(tokenString string) *SessionClaims {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	if claims.Version != claimsVersion {
		return nil
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}

	return claims
}
