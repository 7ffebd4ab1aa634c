package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"anoa.com/studentprofile/internal/modules/notification/dto"
	notifRepo "anoa.com/studentprofile/internal/modules/notification/repository"
	"anoa.com/studentprofile/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeed(t *testing.T) (FeedService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFeedService(notifRepo.NewFeedRepository(rdb)), mr
}

func event(first string) dto.FeedEvent {
	return dto.FeedEvent{
		Type:      dto.EventProfileSubmitted,
		StudentID: uuid.New(),
		FirstName: first,
		At:        time.Now().UTC().Truncate(time.Second),
	}
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	svc, _ := newFeed(t)
	ctx := context.Background()

	require.NoError(t, svc.Publish(ctx, event("first")))
	require.NoError(t, svc.Publish(ctx, event("second")))
	require.NoError(t, svc.Publish(ctx, event("third")))

	events, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "third", events[0].FirstName)
	assert.Equal(t, "second", events[1].FirstName)
}

func TestRecentIsCapped(t *testing.T) {
	svc, mr := newFeed(t)
	ctx := context.Background()

	for i := 0; i < 105; i++ {
		require.NoError(t, svc.Publish(ctx, event("s")))
	}

	items, err := mr.List("teacher_feed:recent")
	require.NoError(t, err)
	assert.Len(t, items, 100)

	events, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, events, 100)
}

func TestRecentSkipsUnreadableEntries(t *testing.T) {
	svc, mr := newFeed(t)
	ctx := context.Background()

	require.NoError(t, svc.Publish(ctx, event("ok")))
	_, err := mr.Lpush("teacher_feed:recent", "not json")
	require.NoError(t, err)

	events, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].FirstName)
}

func TestSubscribeReceivesPublishedEvents(t *testing.T) {
	svc, _ := newFeed(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pubsub, err := svc.Subscribe(ctx)
	require.NoError(t, err)
	defer pubsub.Close()

	sent := event("live")
	require.NoError(t, svc.Publish(ctx, sent))

	msg, err := pubsub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, notifRepo.FeedChannel, msg.Channel)

	var got dto.FeedEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, sent.StudentID, got.StudentID)
	assert.True(t, sent.At.Equal(got.At))
}

func TestFeedWithoutRedis(t *testing.T) {
	svc := NewFeedService(nil)
	ctx := context.Background()

	assert.NoError(t, svc.Publish(ctx, event("nobody listens")))

	events, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = svc.Subscribe(ctx)
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}
