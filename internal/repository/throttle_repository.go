package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThrottleRepository counts login attempts in Redis. A nil client makes
// every operation a no-op so the limiter fails open when Redis is absent.
type ThrottleRepository struct {
	client *redis.Client
}

// NewThrottleRepository constructs a ThrottleRepository.
func NewThrottleRepository(client *redis.Client) *ThrottleRepository {
	return &ThrottleRepository{client: client}
}

// Incr bumps the attempt counter for the key, starting the window on the
// first attempt, and returns the current count.
func (r *ThrottleRepository) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if r.client == nil {
		return 0, nil
	}

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}

	return incr.Val(), nil
}

// Reset clears the attempt counter for the key.
func (r *ThrottleRepository) Reset(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *ThrottleRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
