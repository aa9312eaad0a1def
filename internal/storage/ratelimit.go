package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CheckRateLimit counts an action of the user and reports whether the
// count went over limit within the window.
func (s *PostgresStorage) CheckRateLimit(ctx context.Context, userID uuid.UUID, action string, limit int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", userID, action)

	count, err := s.redis.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// The window starts with the first action.
	if count == 1 {
		if _, err := s.redis.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count > limit, nil
}
