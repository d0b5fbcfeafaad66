package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenService mints and validates short-lived signed access tokens.
// It is stateless; an issued token cannot be revoked individually and relies
// on its short TTL.
type AccessTokenService struct {
	signer    *Signer
	accessTTL time.Duration
	now       func() time.Time
}

func NewAccessTokenService(signer *Signer, accessTTL time.Duration) *AccessTokenService {
	return &AccessTokenService{
		signer:    signer,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// Issue returns a signed token for subject together with its lifetime in
// seconds, the shape the HTTP boundary reports to clients.
func (ts *AccessTokenService) Issue(subject string) (string, int64, error) {
	now := ts.now()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
	}

	signedToken, err := ts.signer.SignClaims(claims)
	if err != nil {
		return "", 0, err
	}
	return signedToken, int64(ts.accessTTL.Seconds()), nil
}

// Validate returns the subject of a structurally valid, correctly signed,
// unexpired token.
func (ts *AccessTokenService) Validate(tokenString string) (string, error) {
	claims, err := ts.signer.ParseClaims(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
