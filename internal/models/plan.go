package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PlanEntry is one suggested post in a weekly content plan.
type PlanEntry struct {
	ID            string   `json:"id"`
	Day           string   `json:"day"`
	Platform      Platform `json:"platform"`
	Topic         string   `json:"topic"`
	ContentType   string   `json:"content_type"`
	SuggestedTime string   `json:"suggested_time"`
}

// PlanEntries is stored as a JSONB array.
type PlanEntries []PlanEntry

func (e PlanEntries) Value() (driver.Value, error) {
	if e == nil {
		e = PlanEntries{}
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal plan entries: %w", err)
	}
	return b, nil
}

func (e *PlanEntries) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*e = nil
		return nil
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("scan plan entries: unsupported type %T", src)
	}
}

// ContentPlan is a saved weekly plan.
type ContentPlan struct {
	ID            string      `db:"id"              json:"id"`
	ProfileID     string      `db:"profile_id"      json:"profile_id"`
	WeekStartDate time.Time   `db:"week_start_date" json:"week_start_date"`
	Posts         PlanEntries `db:"posts"           json:"posts"`
	Status        PlanStatus  `db:"status"          json:"status"`
	CreatedAt     time.Time   `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"      json:"updated_at"`
}

// WeekStart returns the Monday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
