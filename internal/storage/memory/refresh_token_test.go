package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"blog-auth/internal/storage"
)

func TestRefreshTokenStore_UpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	store := NewRefreshTokenStore()
	userID := uuid.New()

	first, err := store.UpsertForUser(ctx, userID, "hash-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	second, err := store.UpsertForUser(ctx, userID, "hash-2", time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	// Same record: id and created_at survive, only hash and expiry move.
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Equal(t, "hash-2", second.TokenHash)
	require.Equal(t, 1, store.Len())

	_, err = store.FindByHash(ctx, "hash-1")
	require.ErrorIs(t, err, storage.ErrRefreshTokenNotFound)

	byUser, err := store.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "hash-2", byUser.TokenHash)
}

func TestRefreshTokenStore_ReplaceHashMisses(t *testing.T) {
	ctx := context.Background()
	store := NewRefreshTokenStore()

	err := store.ReplaceHash(ctx, "absent", "new", time.Now().Add(time.Hour))
	require.ErrorIs(t, err, storage.ErrRefreshTokenNotFound)
}

func TestRefreshTokenStore_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewRefreshTokenStore()
	userID := uuid.New()

	token, err := store.UpsertForUser(ctx, userID, "hash", time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, store.DeleteByID(ctx, token.ID))
	require.NoError(t, store.DeleteByID(ctx, token.ID))
	require.NoError(t, store.DeleteByUserID(ctx, userID))
	require.Equal(t, 0, store.Len())
}
