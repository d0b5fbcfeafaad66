package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"blog-auth/internal/util"
)

// AttemptCounter is the store behind the login limiter.
type AttemptCounter interface {
	IncrementAttempts(ctx context.Context, key string, window time.Duration) (int64, error)
	Block(ctx context.Context, key string, blockTime time.Duration) error
	IsBlocked(ctx context.Context, key string) (bool, error)
}

// LoginRateLimiter throttles login attempts per login identifier with a fixed
// window; crossing the limit blocks the identifier for a cool-down period.
type LoginRateLimiter struct {
	attempts AttemptCounter
	cfg      *util.RateLimiterConfig
	log      *zap.SugaredLogger
}

func NewLoginRateLimiter(attempts AttemptCounter, cfg *util.RateLimiterConfig, log *zap.SugaredLogger) *LoginRateLimiter {
	return &LoginRateLimiter{attempts: attempts, cfg: cfg, log: log}
}

// Allow records one attempt for key and reports ErrLoginRateLimited when the
// key is blocked or just crossed the limit.
func (rl *LoginRateLimiter) Allow(ctx context.Context, key string) error {
	blocked, err := rl.attempts.IsBlocked(ctx, key)
	if err != nil {
		return fmt.Errorf("check login block: %w", err)
	}
	if blocked {
		return ErrLoginRateLimited
	}

	count, err := rl.attempts.IncrementAttempts(ctx, key, rl.cfg.Interval)
	if err != nil {
		return fmt.Errorf("count login attempt: %w", err)
	}
	if count > int64(rl.cfg.Limit) {
		if err := rl.attempts.Block(ctx, key, rl.cfg.BlockTime); err != nil {
			return fmt.Errorf("block login key: %w", err)
		}
		rl.log.Warnw("login attempts blocked", "key", key, "count", count)
		return ErrLoginRateLimited
	}

	return nil
}
