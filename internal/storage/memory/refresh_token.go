package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"blog-auth/internal/models"
	"blog-auth/internal/storage"
)

// RefreshTokenStore is an in-memory implementation of the refresh credential
// store. Every method holds the mutex for its whole body, so each call is a
// single atomic unit just like the SQL statements it stands in for.
type RefreshTokenStore struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]*models.RefreshToken
	now    func() time.Time
}

func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{
		byUser: make(map[uuid.UUID]*models.RefreshToken),
		now:    time.Now,
	}
}

func (s *RefreshTokenStore) FindByUserID(_ context.Context, userID uuid.UUID) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.byUser[userID]
	if !ok {
		return nil, storage.ErrRefreshTokenNotFound
	}
	copied := *token
	return &copied, nil
}

func (s *RefreshTokenStore) FindByHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, token := range s.byUser {
		if token.TokenHash == tokenHash {
			copied := *token
			return &copied, nil
		}
	}
	return nil, storage.ErrRefreshTokenNotFound
}

func (s *RefreshTokenStore) UpsertForUser(
	_ context.Context,
	userID uuid.UUID,
	tokenHash string,
	expiresAt time.Time,
) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.byUser[userID]
	if !ok {
		token = &models.RefreshToken{
			ID:        uuid.New(),
			UserID:    userID,
			CreatedAt: s.now(),
		}
		s.byUser[userID] = token
	}
	token.TokenHash = tokenHash
	token.ExpiresAt = expiresAt

	copied := *token
	return &copied, nil
}

func (s *RefreshTokenStore) ReplaceHash(_ context.Context, oldHash, newHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, token := range s.byUser {
		if token.TokenHash == oldHash {
			token.TokenHash = newHash
			token.ExpiresAt = expiresAt
			return nil
		}
	}
	return storage.ErrRefreshTokenNotFound
}

func (s *RefreshTokenStore) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byUser, userID)
	return nil
}

func (s *RefreshTokenStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, token := range s.byUser {
		if token.ID == id {
			delete(s.byUser, userID)
		}
	}
	return nil
}

// Len reports how many records exist, for invariant checks in tests.
func (s *RefreshTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser)
}
