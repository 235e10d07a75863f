package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaim is what a session token says about its holder.
type SessionClaim struct {
	UserName string
	ID       string
	Email    string
}

type Claims struct {
	UserName  string `json:"user_name"`
	AccountID string `json:"id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens. The secret and TTL
// are fixed at construction.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

func (i *TokenIssuer) Issue(claim SessionClaim) (string, error) {
	now := i.now()
	claims := Claims{
		UserName:  claim.UserName,
		AccountID: claim.ID,
		Email:     claim.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claim.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigningFailure, err)
	}
	return signed, nil
}

// Verify returns ErrTokenExpired once the TTL has passed and ErrTokenInvalid
// for any other problem with the token.
func (i *TokenIssuer) Verify(tokenString string) (*SessionClaim, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.AccountID == "" {
		return nil, ErrTokenInvalid
	}

	return &SessionClaim{
		UserName: claims.UserName,
		ID:       claims.AccountID,
		Email:    claims.Email,
	}, nil
}
