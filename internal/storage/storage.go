package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"blog-auth/internal/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
)

type Storage interface {
	UserRepository
	RefreshTokenRepository
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RefreshTokenRepository owns the single-row-per-user refresh credential
// records. UpsertForUser and ReplaceHash are single atomic statements; the
// store, not the caller, provides the concurrency discipline.
type RefreshTokenRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error)
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// UpsertForUser creates the user's record or replaces its hash and expiry
	// in place, keyed by the unique constraint on user_id. Last writer wins;
	// no duplicate rows are ever visible.
	UpsertForUser(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.RefreshToken, error)

	// ReplaceHash swaps oldHash for newHash on the record currently holding
	// oldHash. Returns ErrRefreshTokenNotFound if no record holds oldHash
	// anymore, which is how a lost rotation race surfaces.
	ReplaceHash(ctx context.Context, oldHash, newHash string, expiresAt time.Time) error

	// Deletes are idempotent: removing an absent record is not an error.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
