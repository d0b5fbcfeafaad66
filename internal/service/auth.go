package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blog-auth/internal/models"
	"blog-auth/internal/storage"
)

// UserStore is the external identity capability the authentication flows
// compose with. Both "unknown email" and "wrong password" come back as
// ErrInvalidCredentials.
type UserStore interface {
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type TokenPair struct {
	AccessToken  string
	ExpiresIn    int64
	RefreshToken string
}

// AuthService orchestrates login, refresh, and logout by composing the user
// store with the two token subsystems. It holds no state of its own.
type AuthService struct {
	users         UserStore
	accessTokens  *AccessTokenService
	refreshTokens *RefreshTokenService
	log           *zap.SugaredLogger
}

func NewAuthService(
	users UserStore,
	accessTokens *AccessTokenService,
	refreshTokens *RefreshTokenService,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		users:         users,
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
		log:           log,
	}
}

func (as *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := as.users.VerifyCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			as.log.Warnw("login rejected", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	pair, err := as.mintPair(ctx, user)
	if err != nil {
		return nil, err
	}

	as.log.Infow("user logged in", "user_id", user.ID)
	return pair, nil
}

// Refresh rotates the presented refresh secret and mints a new access token
// for its owner. Invalid and expired refresh tokens pass through unchanged
// for the boundary to map.
func (as *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (*TokenPair, error) {
	userID, newRaw, err := as.refreshTokens.Rotate(ctx, rawRefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := as.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Owner vanished between rotation and lookup; the rotated
			// credential is useless either way.
			return nil, ErrRefreshTokenInvalid
		}
		return nil, fmt.Errorf("resolve refresh token owner: %w", err)
	}

	accessToken, expiresIn, err := as.accessTokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	as.log.Infow("tokens refreshed", "user_id", user.ID)
	return &TokenPair{AccessToken: accessToken, ExpiresIn: expiresIn, RefreshToken: newRaw}, nil
}

// Logout revokes the presented refresh secret. It never fails from the
// caller's perspective short of a store outage.
func (as *AuthService) Logout(ctx context.Context, rawRefreshToken string) error {
	if rawRefreshToken == "" {
		return nil
	}
	return as.refreshTokens.Revoke(ctx, rawRefreshToken)
}

// ValidateAccessToken is the pass-through used by the bearer middleware.
func (as *AuthService) ValidateAccessToken(tokenString string) (string, error) {
	return as.accessTokens.Validate(tokenString)
}

func (as *AuthService) mintPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, expiresIn, err := as.accessTokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	rawRefresh, err := as.refreshTokens.IssueOrReplace(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, ExpiresIn: expiresIn, RefreshToken: rawRefresh}, nil
}
