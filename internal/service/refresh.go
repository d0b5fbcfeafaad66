package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blog-auth/internal/storage"
	"blog-auth/internal/util"
)

// RefreshTokenService issues, rotates, and revokes opaque refresh credentials.
// The raw secret leaves this package exactly once per issuance; only its
// peppered SHA-256 hex digest is persisted.
type RefreshTokenService struct {
	store      storage.RefreshTokenRepository
	pepper     string
	refreshTTL time.Duration
	now        func() time.Time
}

func NewRefreshTokenService(store storage.RefreshTokenRepository, pepper string, refreshTTL time.Duration) *RefreshTokenService {
	return &RefreshTokenService{
		store:      store,
		pepper:     pepper,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueOrReplace mints a fresh raw secret for userID and upserts its hash,
// overwriting any previous credential for the user. Used at login and whenever
// the prior token is lost.
func (rs *RefreshTokenService) IssueOrReplace(ctx context.Context, userID uuid.UUID) (string, error) {
	raw, err := newRawSecret()
	if err != nil {
		return "", err
	}

	expiresAt := rs.now().Add(rs.refreshTTL)
	if _, err := rs.store.UpsertForUser(ctx, userID, rs.hash(raw), expiresAt); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return raw, nil
}

// Rotate exchanges a presented raw secret for a new one on the same record.
// A hash miss covers both unknown and already-rotated tokens, so replay after
// rotation fails the same way as garbage input. An expired record is deleted
// before the failure is reported.
func (rs *RefreshTokenService) Rotate(ctx context.Context, presentedRaw string) (uuid.UUID, string, error) {
	oldHash := rs.hash(presentedRaw)

	record, err := rs.store.FindByHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return uuid.Nil, "", ErrRefreshTokenInvalid
		}
		return uuid.Nil, "", fmt.Errorf("find refresh token: %w", err)
	}

	if !record.ExpiresAt.After(rs.now()) {
		if err := rs.store.DeleteByID(ctx, record.ID); err != nil {
			return uuid.Nil, "", fmt.Errorf("delete expired refresh token: %w", err)
		}
		return uuid.Nil, "", ErrRefreshTokenExpired
	}

	newRaw, err := newRawSecret()
	if err != nil {
		return uuid.Nil, "", err
	}

	// Compare-and-swap keyed by the presented hash: of two concurrent
	// rotations of the same secret at most one finds the row still holding
	// oldHash, the other loses and is rejected as a replay.
	err = rs.store.ReplaceHash(ctx, oldHash, rs.hash(newRaw), rs.now().Add(rs.refreshTTL))
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return uuid.Nil, "", ErrRefreshTokenInvalid
		}
		return uuid.Nil, "", fmt.Errorf("rotate refresh token: %w", err)
	}

	return record.UserID, newRaw, nil
}

// Revoke deletes the record holding the presented secret's hash. Unknown or
// already-revoked tokens are not an error, so logout stays idempotent.
func (rs *RefreshTokenService) Revoke(ctx context.Context, presentedRaw string) error {
	record, err := rs.store.FindByHash(ctx, rs.hash(presentedRaw))
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return nil
		}
		return fmt.Errorf("find refresh token: %w", err)
	}

	if err := rs.store.DeleteByID(ctx, record.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (rs *RefreshTokenService) hash(raw string) string {
	digest := sha256.Sum256([]byte(raw + rs.pepper))
	return hex.EncodeToString(digest[:])
}

func newRawSecret() (string, error) {
	buf := make([]byte, util.RawRefreshTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
