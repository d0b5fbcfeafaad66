package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptStore keeps fixed-window login attempt counters and block markers
// in Redis. Keys expire on their own; nothing is ever cleaned up manually.
type AttemptStore struct {
	client *redis.Client
}

func NewAttemptStore(client *redis.Client) *AttemptStore {
	return &AttemptStore{client: client}
}

// IncrementAttempts bumps the window counter for key and returns the new
// count. The TTL is set only when the key is created, so the window is fixed,
// not sliding.
func (s *AttemptStore) IncrementAttempts(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, attemptsKey(key))
	pipe.ExpireNX(ctx, attemptsKey(key), window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return incr.Val(), nil
}

func (s *AttemptStore) Block(ctx context.Context, key string, blockTime time.Duration) error {
	if err := s.client.Set(ctx, blockKey(key), "blocked", blockTime).Err(); err != nil {
		return fmt.Errorf("block key: %w", err)
	}
	return nil
}

func (s *AttemptStore) IsBlocked(ctx context.Context, key string) (bool, error) {
	result, err := s.client.Get(ctx, blockKey(key)).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("check block: %w", err)
	}
	return result == "blocked", nil
}

func attemptsKey(key string) string { return "login:attempts:" + key }
func blockKey(key string) string    { return "login:block:" + key }
