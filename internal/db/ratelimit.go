package db

import (
	"context"
	"fmt"
	"time"

	"envmonitor-service/internal/ratelimit"
)

// CheckAndIncrement atomically bumps the (user, endpoint, window) counter
// and reports whether the post-increment count exceeds max. The upsert is
// linearizable per key, so concurrent requests from one user race safely.
func (d *DB) CheckAndIncrement(ctx context.Context, userID, endpoint string, max, windowMinutes int) (ratelimit.Status, error) {
	windowStart := ratelimit.WindowStart(time.Now(), windowMinutes)

	query := `
        INSERT INTO rate_limits (user_id, endpoint, window_start, request_count)
        VALUES ($1, $2, $3, 1)
        ON CONFLICT (user_id, endpoint, window_start)
        DO UPDATE SET request_count = rate_limits.request_count + 1
        RETURNING request_count`

	var count int
	if err := d.Pool.QueryRow(ctx, query, userID, endpoint, windowStart).Scan(&count); err != nil {
		return ratelimit.Status{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	return ratelimit.FromCount(count, max), nil
}
