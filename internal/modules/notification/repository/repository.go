package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	FeedChannel = "teacher_feed"
	recentKey   = "teacher_feed:recent"
	recentSize  = 100
)

// FeedRepository publishes feed payloads and keeps a short backlog so a
// teacher who connects late can catch up.
type FeedRepository interface {
	Publish(ctx context.Context, payload []byte) error
	Recent(ctx context.Context, limit int) ([]string, error)
	Subscribe(ctx context.Context) *redis.PubSub
}

type feedRepository struct {
	rdb *redis.Client
}

func NewFeedRepository(rdb *redis.Client) FeedRepository {
	return &feedRepository{rdb: rdb}
}

func (r *feedRepository) Publish(ctx context.Context, payload []byte) error {
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, recentKey, payload)
	pipe.LTrim(ctx, recentKey, 0, recentSize-1)
	pipe.Publish(ctx, FeedChannel, payload)
	_, err := pipe.Exec(ctx)
	return err
}

// Recent returns the newest payloads first.
func (r *feedRepository) Recent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > recentSize {
		limit = recentSize
	}
	return r.rdb.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
}

func (r *feedRepository) Subscribe(ctx context.Context) *redis.PubSub {
	return r.rdb.Subscribe(ctx, FeedChannel)
}
