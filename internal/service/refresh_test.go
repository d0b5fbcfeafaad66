package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"blog-auth/internal/storage/memory"
)

const testPepper = "test-pepper-16-bytes"

func newTestRefreshService(store *memory.RefreshTokenStore) *RefreshTokenService {
	return NewRefreshTokenService(store, testPepper, 14*24*time.Hour)
}

func TestRefreshToken_IssueAndRotate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRefreshTokenStore()
	rs := newTestRefreshService(store)
	userID := uuid.New()

	r1, err := rs.IssueOrReplace(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, r1)

	gotUserID, r2, err := rs.Rotate(ctx, r1)
	require.NoError(t, err)
	require.Equal(t, userID, gotUserID)
	require.NotEqual(t, r1, r2)
	require.Equal(t, 1, store.Len())
}

func TestRefreshToken_RotationInvalidatesPriorToken(t *testing.T) {
	ctx := context.Background()
	rs := newTestRefreshService(memory.NewRefreshTokenStore())
	userID := uuid.New()

	r1, err := rs.IssueOrReplace(ctx, userID)
	require.NoError(t, err)

	_, r2, err := rs.Rotate(ctx, r1)
	require.NoError(t, err)

	_, _, err = rs.Rotate(ctx, r1)
	require.ErrorIs(t, err, ErrRefreshTokenInvalid)

	// The replacement still works.
	_, _, err = rs.Rotate(ctx, r2)
	require.NoError(t, err)
}

func TestRefreshToken_UnknownTokenRejected(t *testing.T) {
	rs := newTestRefreshService(memory.NewRefreshTokenStore())

	_, _, err := rs.Rotate(context.Background(), "never-issued")
	require.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestRefreshToken_ExpiredDeletedOnUse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRefreshTokenStore()
	rs := newTestRefreshService(store)
	userID := uuid.New()

	r1, err := rs.IssueOrReplace(ctx, userID)
	require.NoError(t, err)

	rs.now = func() time.Time { return time.Now().Add(15 * 24 * time.Hour) }

	_, _, err = rs.Rotate(ctx, r1)
	require.ErrorIs(t, err, ErrRefreshTokenExpired)
	require.Equal(t, 0, store.Len())

	// The record is gone, so presenting the same secret again is
	// indistinguishable from a replay.
	_, _, err = rs.Rotate(ctx, r1)
	require.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestRefreshToken_RevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRefreshTokenStore()
	rs := newTestRefreshService(store)
	userID := uuid.New()

	r1, err := rs.IssueOrReplace(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, rs.Revoke(ctx, r1))
	require.Equal(t, 0, store.Len())

	require.NoError(t, rs.Revoke(ctx, r1))
	require.NoError(t, rs.Revoke(ctx, "never-issued"))
}

func TestRefreshToken_IssueOrReplaceKeepsSingleRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRefreshTokenStore()
	rs := newTestRefreshService(store)
	userID := uuid.New()

	const writers = 32
	errs := make(chan error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rs.IssueOrReplace(ctx, userID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 1, store.Len())
}

func TestRefreshToken_ConcurrentRotateHasOneWinner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRefreshTokenStore()
	rs := newTestRefreshService(store)
	userID := uuid.New()

	r1, err := rs.IssueOrReplace(ctx, userID)
	require.NoError(t, err)

	const rotations = 8
	type result struct {
		newRaw string
		err    error
	}
	results := make(chan result, rotations)

	var wg sync.WaitGroup
	for i := 0; i < rotations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, newRaw, err := rs.Rotate(ctx, r1)
			results <- result{newRaw: newRaw, err: err}
		}()
	}
	wg.Wait()
	close(results)

	var winners []string
	for res := range results {
		if res.err == nil {
			winners = append(winners, res.newRaw)
		} else {
			require.ErrorIs(t, res.err, ErrRefreshTokenInvalid)
		}
	}
	require.Len(t, winners, 1)

	// The single surviving record holds the winner's hash.
	require.Equal(t, 1, store.Len())
	gotUserID, _, err := rs.Rotate(ctx, winners[0])
	require.NoError(t, err)
	require.Equal(t, userID, gotUserID)
}
