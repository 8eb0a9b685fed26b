package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraevents "github.com/jonesrussell/postcraft/infrastructure/events"
	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/events"
	"github.com/jonesrussell/postcraft/internal/models"
)

func newPublisher(t *testing.T) (*events.Publisher, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return events.NewPublisher(client, logger.NewNop()), client
}

func samplePost() *models.SocialPost {
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	return &models.SocialPost{
		ID:            "post-1",
		ProfileID:     "profile-1",
		Platform:      models.PlatformInstagram,
		Content:       "hello",
		Status:        models.StatusScheduled,
		ScheduledTime: &at,
	}
}

func TestNewPublisher_NilClient(t *testing.T) {
	t.Parallel()

	pub := events.NewPublisher(nil, logger.NewNop())
	assert.Nil(t, pub)
	require.NoError(t, pub.Publish(context.Background(), events.PostDeleted(samplePost())))
	pub.PublishAsync(events.PostDeleted(samplePost()))
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	pub, client := newPublisher(t)
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, events.PostScheduled(samplePost())))

	msgs, err := client.XRange(ctx, infraevents.StreamName, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "POST_SCHEDULED", msgs[0].Values["event_type"])

	raw, ok := msgs[0].Values["event"].(string)
	require.True(t, ok)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, "post-1", got["post_id"])
	assert.Equal(t, "profile-1", got["profile_id"])
	payload, ok := got["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "instagram", payload["platform"])
	assert.Equal(t, "2026-05-04T10:00:00Z", payload["scheduled_time"])
}

func TestPublisher_PublishFillsEnvelope(t *testing.T) {
	t.Parallel()

	pub, client := newPublisher(t)
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, infraevents.PostEvent{EventType: infraevents.PostDeleted, PostID: "p"}))

	msgs, err := client.XRange(ctx, infraevents.StreamName, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	var got infraevents.PostEvent
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["event"].(string)), &got))
	assert.NotEmpty(t, got.EventID.String())
	assert.False(t, got.Timestamp.IsZero())
}

func TestPublisher_PublishAsync(t *testing.T) {
	t.Parallel()

	pub, client := newPublisher(t)
	post := samplePost()
	pub.PublishAsync(events.PostCreated(post, true))

	assert.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), infraevents.StreamName).Result()
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEventBuilders(t *testing.T) {
	t.Parallel()

	post := samplePost()

	created := events.PostCreated(post, true)
	assert.Equal(t, infraevents.PostCreated, created.EventType)
	assert.Equal(t, infraevents.PostCreatedPayload{Platform: "instagram", Status: "scheduled", Generated: true}, created.Payload)

	updated := events.PostUpdated(post, []string{"content"})
	assert.Equal(t, infraevents.PostUpdatedPayload{ChangedFields: []string{"content"}, Status: "scheduled"}, updated.Payload)

	deleted := events.PostDeleted(post)
	assert.Equal(t, "post-1", deleted.PostID)
	assert.Equal(t, "profile-1", deleted.ProfileID)
}
