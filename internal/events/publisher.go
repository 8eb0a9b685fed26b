// Package events publishes post lifecycle events to a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infracontext "github.com/jonesrussell/postcraft/infrastructure/context"
	infraevents "github.com/jonesrussell/postcraft/infrastructure/events"
	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/models"
)

// Publisher writes to infraevents.StreamName. A nil *Publisher is a valid
// no-op, used when Redis is disabled.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher returns nil if client is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{client: client, log: log}
}

func (p *Publisher) Publish(ctx context.Context, event infraevents.PostEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: infraevents.StreamName,
		MaxLen: infraevents.MaxStreamLen,
		Approx: true,
		Values: map[string]any{
			"event_type": string(event.EventType),
			"event":      string(payload),
		},
	})
	if err = result.Err(); err != nil {
		return fmt.Errorf("publish to stream: %w", err)
	}

	p.log.Debug("Published post event",
		logger.String("event_type", string(event.EventType)),
		logger.PostID(event.PostID),
		logger.String("stream_id", result.Val()),
	)
	return nil
}

// PublishAsync publishes on its own goroutine with a bounded context so
// the request that triggered it can finish first. Failures are logged.
func (p *Publisher) PublishAsync(event infraevents.PostEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := infracontext.WithPublishTimeout()
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Warn("Async publish failed",
				logger.String("event_type", string(event.EventType)),
				logger.PostID(event.PostID),
				logger.Error(err),
			)
		}
	}()
}

// PostCreated builds the envelope for a new post.
func PostCreated(post *models.SocialPost, generated bool) infraevents.PostEvent {
	return infraevents.New(infraevents.PostCreated, post.ID, post.ProfileID, infraevents.PostCreatedPayload{
		Platform:  string(post.Platform),
		Status:    string(post.Status),
		Generated: generated,
	})
}

func PostUpdated(post *models.SocialPost, changed []string) infraevents.PostEvent {
	return infraevents.New(infraevents.PostUpdated, post.ID, post.ProfileID, infraevents.PostUpdatedPayload{
		ChangedFields: changed,
		Status:        string(post.Status),
	})
}

// PostScheduled expects post.ScheduledTime to be set.
func PostScheduled(post *models.SocialPost) infraevents.PostEvent {
	var at time.Time
	if post.ScheduledTime != nil {
		at = *post.ScheduledTime
	}
	return infraevents.New(infraevents.PostScheduled, post.ID, post.ProfileID, infraevents.PostScheduledPayload{
		Platform:      string(post.Platform),
		ScheduledTime: at,
	})
}

func PostDeleted(post *models.SocialPost) infraevents.PostEvent {
	return infraevents.New(infraevents.PostDeleted, post.ID, post.ProfileID, infraevents.PostDeletedPayload{
		Platform: string(post.Platform),
	})
}
