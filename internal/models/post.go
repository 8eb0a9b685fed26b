package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// SocialPost is a stored post for one business profile.
type SocialPost struct {
	ID                string             `db:"id"                 json:"id"`
	ProfileID         string             `db:"profile_id"         json:"profile_id"`
	Platform          Platform           `db:"platform"           json:"platform"`
	Content           string             `db:"content"            json:"content"`
	MediaURLs         pq.StringArray     `db:"media_urls"         json:"media_urls,omitempty"`
	ScheduledTime     *time.Time         `db:"scheduled_time"     json:"scheduled_time,omitempty"`
	PublishedTime     *time.Time         `db:"published_time"     json:"published_time,omitempty"`
	Status            PostStatus         `db:"status"             json:"status"`
	EngagementMetrics *EngagementMetrics `db:"engagement_metrics" json:"engagement_metrics,omitempty"`
	CreatedAt         time.Time          `db:"created_at"         json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at"         json:"updated_at"`
}

// EngagementMetrics is stored as a JSONB column.
type EngagementMetrics struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Views    int64 `json:"views"`
}

// Value has a value receiver so a nil *EngagementMetrics is stored as NULL.
func (m EngagementMetrics) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal engagement metrics: %w", err)
	}
	return b, nil
}

func (m *EngagementMetrics) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = EngagementMetrics{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan engagement metrics: unsupported type %T", src)
	}
	return json.Unmarshal(data, m)
}

// MaxContentLength bounds stored post bodies.
const MaxContentLength = 10000

// Validate checks a post before it is written.
func (p *SocialPost) Validate() error {
	if !p.Platform.Valid() {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidPlatform)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidStatus)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if len(p.Content) > MaxContentLength {
		return fmt.Errorf("%w: content exceeds %d bytes", ErrValidation, MaxContentLength)
	}
	if p.Status == StatusScheduled && p.ScheduledTime == nil {
		return fmt.Errorf("%w: scheduled posts need scheduled_time", ErrValidation)
	}
	for _, u := range p.MediaURLs {
		media := u
		if err := validateOptionalURL("media_urls", &media); err != nil {
			return err
		}
	}
	return nil
}

// PostUpdate is a partial update; nil fields are left alone.
type PostUpdate struct {
	Platform          *Platform          `json:"platform"`
	Content           *string            `json:"content"`
	MediaURLs         *[]string          `json:"media_urls"`
	ScheduledTime     *time.Time         `json:"scheduled_time"`
	PublishedTime     *time.Time         `json:"published_time"`
	Status            *PostStatus        `json:"status"`
	EngagementMetrics *EngagementMetrics `json:"engagement_metrics"`
}

// Apply copies the set fields into p and returns their JSON names.
func (u PostUpdate) Apply(p *SocialPost) []string {
	var changed []string
	if u.Platform != nil && *u.Platform != p.Platform {
		p.Platform = *u.Platform
		changed = append(changed, "platform")
	}
	if u.Content != nil && *u.Content != p.Content {
		p.Content = *u.Content
		changed = append(changed, "content")
	}
	if u.MediaURLs != nil {
		p.MediaURLs = pq.StringArray(*u.MediaURLs)
		changed = append(changed, "media_urls")
	}
	if u.ScheduledTime != nil {
		t := u.ScheduledTime.UTC()
		p.ScheduledTime = &t
		changed = append(changed, "scheduled_time")
	}
	if u.PublishedTime != nil {
		t := u.PublishedTime.UTC()
		p.PublishedTime = &t
		changed = append(changed, "published_time")
	}
	if u.Status != nil && *u.Status != p.Status {
		p.Status = *u.Status
		changed = append(changed, "status")
	}
	if u.EngagementMetrics != nil {
		m := *u.EngagementMetrics
		p.EngagementMetrics = &m
		changed = append(changed, "engagement_metrics")
	}
	return changed
}

var ErrScheduleInPast = errors.New("scheduled time is in the past")

// Schedule moves p to scheduled at t. Published posts cannot be rescheduled.
func (p *SocialPost) Schedule(t, now time.Time) error {
	if p.Status == StatusPublished {
		return fmt.Errorf("%w: post already published", ErrValidation)
	}
	if !t.After(now) {
		return ErrScheduleInPast
	}
	utc := t.UTC()
	p.ScheduledTime = &utc
	p.Status = StatusScheduled
	return nil
}
