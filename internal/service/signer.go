package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"blog-auth/internal/util"
)

// Signer holds the process-wide HMAC key and is the only component that
// touches it. Everything above deals in claims, not key material.
type Signer struct {
	secretKey []byte
}

func NewSigner(secretKey []byte) *Signer {
	return &Signer{secretKey: secretKey}
}

func (s *Signer) SignClaims(claims *jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}
	return signedToken, nil
}

// ParseClaims verifies the signature and structure of tokenString and returns
// its claims. Expiry is checked by the parser with a small leeway; an expired
// but otherwise valid token maps to ErrTokenExpired, everything else to
// ErrTokenInvalid.
func (s *Signer) ParseClaims(tokenString string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(util.JWTLeeWay),
		jwt.WithExpirationRequired(),
	}

	parsedToken, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return s.secretKey, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsedToken.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
