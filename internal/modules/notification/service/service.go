package service

import (
	"context"
	"encoding/json"
	"net/http"

	"anoa.com/studentprofile/internal/modules/notification/dto"
	notifRepo "anoa.com/studentprofile/internal/modules/notification/repository"
	"anoa.com/studentprofile/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

type FeedService interface {
	Publish(ctx context.Context, event dto.FeedEvent) error
	Recent(ctx context.Context, limit int) ([]dto.FeedEvent, error)
	Subscribe(ctx context.Context) (*redis.PubSub, error)
}

type feedService struct {
	repo notifRepo.FeedRepository
}

// NewFeedService accepts a nil repository, in which case publishing is a
// no-op and subscribing reports the feed as unavailable.
func NewFeedService(repo notifRepo.FeedRepository) FeedService {
	return &feedService{repo: repo}
}

func (s *feedService) Publish(ctx context.Context, event dto.FeedEvent) error {
	if s.repo == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.repo.Publish(ctx, payload)
}

func (s *feedService) Recent(ctx context.Context, limit int) ([]dto.FeedEvent, error) {
	events := []dto.FeedEvent{}
	if s.repo == nil {
		return events, nil
	}

	raw, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, item := range raw {
		var event dto.FeedEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *feedService) Subscribe(ctx context.Context) (*redis.PubSub, error) {
	if s.repo == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "live feed is not available", apperror.ErrUnavailable)
	}

	pubsub := s.repo.Subscribe(ctx)
	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	return pubsub, nil
}
