// Package auth resolves bearer tokens to internal user ids.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-convo/internal/pkg/identity"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthenticated = errors.New("auth: missing or invalid token")

// Claims carry the external user id as subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 tokens whose subject is an external user id.
type Authenticator struct {
	secret []byte
	codec  *identity.Codec
	now    func() time.Time
}

func NewAuthenticator(secret string, codec *identity.Codec) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret is empty")
	}
	return &Authenticator{secret: []byte(secret), codec: codec, now: time.Now}, nil
}

// Authenticate returns the internal user id the token was issued to.
func (a *Authenticator) Authenticate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrUnauthenticated
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrUnauthenticated
	}
	userID, err := a.codec.Decode(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return userID, nil
}

// IssueToken signs a token for the internal user id. Tokens are minted by the account
// service in production; this is used by tooling and tests.
func (a *Authenticator) IssueToken(userID string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.codec.Encode(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

type userKey struct{}

// WithUserID stores the authenticated internal user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID returns the authenticated internal user id, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}
