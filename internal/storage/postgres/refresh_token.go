package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blog-auth/internal/models"
	"blog-auth/internal/storage"
)

type RefreshTokenRepository struct {
	db storage.DBTX
}

func NewRefreshTokenRepository(db storage.DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error) {
	query := `SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE user_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *RefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tokenHash))
}

// UpsertForUser is a single atomic statement keyed by the unique constraint on
// user_id. Two concurrent calls for the same user net out to one row holding
// the last writer's hash; id and created_at survive the update.
func (r *RefreshTokenRepository) UpsertForUser(
	ctx context.Context,
	userID uuid.UUID,
	tokenHash string,
	expiresAt time.Time,
) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET token_hash = EXCLUDED.token_hash, expires_at = EXCLUDED.expires_at
		RETURNING id, user_id, token_hash, expires_at, created_at`
	row := r.db.QueryRowContext(ctx, query, uuid.New(), userID, tokenHash, expiresAt)
	token, err := r.scanOne(row)
	if err != nil {
		return nil, fmt.Errorf("upsert refresh token: %w", err)
	}
	return token, nil
}

// ReplaceHash rotates the record currently holding oldHash. When a concurrent
// rotation got there first the row no longer matches and zero rows are
// updated, which the caller treats the same as a replayed token.
func (r *RefreshTokenRepository) ReplaceHash(ctx context.Context, oldHash, newHash string, expiresAt time.Time) error {
	query := `UPDATE refresh_tokens SET token_hash = $2, expires_at = $3 WHERE token_hash = $1`
	res, err := r.db.ExecContext(ctx, query, oldHash, newHash, expiresAt)
	if err != nil {
		return fmt.Errorf("replace refresh token hash: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace refresh token hash: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrRefreshTokenNotFound
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete refresh token by user: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM refresh_tokens WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete refresh token by id: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) scanOne(row *sql.Row) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := row.Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}
	return &token, nil
}
