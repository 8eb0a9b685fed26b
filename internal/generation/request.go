// Package generation produces social-media post copy from a topic by
// asking a primary text-generation provider and, only when that fails,
// a fallback provider. It also derives hashtags from the topic.
package generation

import (
	"fmt"

	"github.com/jonesrussell/postcraft/internal/models"
)

// DefaultMaxLength is used when a request does not set MaxLength.
const DefaultMaxLength = 200

// Request asks for one post. It is an immutable value.
type Request struct {
	Topic           string          `json:"topic"`
	Platform        models.Platform `json:"platform"`
	Tone            string          `json:"tone,omitempty"`
	MaxLength       int             `json:"max_length,omitempty"`
	IncludeHashtags bool            `json:"include_hashtags"`
	IncludeEmojis   bool            `json:"include_emojis"`
}

// Validate only checks the platform; topic and tone are passed through as-is.
func (r Request) Validate() error {
	if !r.Platform.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidPlatform, r.Platform)
	}
	return nil
}

// EffectiveMaxLength is MaxLength, or DefaultMaxLength when unset.
func (r Request) EffectiveMaxLength() int {
	if r.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return r.MaxLength
}

// Role says which position in the chain answered.
type Role string

const (
	RolePrimary  Role = "primary"
	RoleFallback Role = "fallback"
)

// Result is what callers get back.
type Result struct {
	Content         string   `json:"content"`
	Hashtags        []string `json:"hashtags,omitempty"`
	ConfidenceScore float64  `json:"confidence_score"`
	Provider        Role     `json:"provider"`
	ModelUsed       string   `json:"model_used"`
}
