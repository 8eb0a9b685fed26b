// Package events defines the post lifecycle events published to Redis
// Streams for downstream consumers (publishers, analytics).
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream carrying post events.
const StreamName = "post-events"

// MaxStreamLen caps the stream with approximate trimming.
const MaxStreamLen = 10000

type EventType string

const (
	PostCreated   EventType = "POST_CREATED"
	PostUpdated   EventType = "POST_UPDATED"
	PostScheduled EventType = "POST_SCHEDULED"
	PostDeleted   EventType = "POST_DELETED"
)

// PostEvent is the envelope for every post event.
type PostEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	PostID    string    `json:"post_id"`
	ProfileID string    `json:"profile_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh ID and the current UTC time.
func New(eventType EventType, postID, profileID string, payload any) PostEvent {
	return PostEvent{
		EventID:   uuid.New(),
		EventType: eventType,
		PostID:    postID,
		ProfileID: profileID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

type PostCreatedPayload struct {
	Platform  string `json:"platform"`
	Status    string `json:"status"`
	Generated bool   `json:"generated"`
}

type PostUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
	Status        string   `json:"status"`
}

type PostScheduledPayload struct {
	Platform      string    `json:"platform"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

type PostDeletedPayload struct {
	Platform string `json:"platform"`
}
