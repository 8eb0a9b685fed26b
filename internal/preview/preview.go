// Package preview renders post content to HTML for preview cards.
package preview

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/jonesrussell/postcraft/internal/models"
)

// Renderer is safe for concurrent use. Raw HTML in content is dropped, not
// passed through.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (r *Renderer) Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Card is what the preview endpoint returns.
type Card struct {
	PostID         string          `json:"post_id"`
	Platform       models.Platform `json:"platform"`
	HTML           string          `json:"html"`
	CharacterCount int             `json:"character_count"`
	OverLimit      bool            `json:"over_limit"`
}

// PlatformLimits are the per-network character limits shown in previews.
var PlatformLimits = map[models.Platform]int{
	models.PlatformFacebook:  63206,
	models.PlatformInstagram: 2200,
	models.PlatformLinkedIn:  3000,
	models.PlatformTikTok:    2200,
}

// CardFor renders post into a preview card.
func (r *Renderer) CardFor(post *models.SocialPost) (Card, error) {
	out, err := r.Render(post.Content)
	if err != nil {
		return Card{}, err
	}
	count := len([]rune(post.Content))
	limit, ok := PlatformLimits[post.Platform]
	return Card{
		PostID:         post.ID,
		Platform:       post.Platform,
		HTML:           out,
		CharacterCount: count,
		OverLimit:      ok && count > limit,
	}, nil
}
