package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckAndSetRateLimit takes a cooldown lock for the given user and action.
// It returns false while a previous lock is still alive. A nil client disables the check.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID, action string, cooldown time.Duration) (bool, error) {
	if rdb == nil || cooldown <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, cooldownKey(userID, action), "locked", cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, cooldownKey(userID, action)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID, action string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, cooldownKey(userID, action)).Err()
}

// Attempt counts one attempt for key inside a fixed window and reports whether
// the caller is still under max.
func Attempt(ctx context.Context, rdb *redis.Client, key string, max int, window time.Duration) (bool, error) {
	if rdb == nil || max <= 0 {
		return true, nil
	}

	k := attemptKey(key)
	n, err := rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count attempt in redis: %w", err)
	}
	if n == 1 {
		if err := rdb.Expire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set attempt window in redis: %w", err)
		}
	}

	return n <= int64(max), nil
}

func ClearAttempts(ctx context.Context, rdb *redis.Client, key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, attemptKey(key)).Err()
}

func cooldownKey(userID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID, action)
}

func attemptKey(key string) string {
	return "rate_limit:attempts:" + key
}
