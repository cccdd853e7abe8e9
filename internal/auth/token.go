package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: forged signature,
// malformed token, expired token. Callers cannot tell these apart.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload embedded in every issued token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed bearer tokens. A token carries its own
// expiry; nothing is kept server-side, so a token stays valid until it
// expires even after the client discards it.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs an HS256 token for the given user.
func (t *Tokens) Issue(userID int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type identityKey struct{}

// WithIdentity returns a context carrying the verified claims. Only the
// auth middleware should attach them.
func WithIdentity(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, identityKey{}, c)
}

// IdentityFrom returns the claims attached by the auth middleware.
func IdentityFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(identityKey{}).(*Claims)
	return c, ok
}
