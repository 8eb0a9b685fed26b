package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/postcraft/internal/models"
)

const postColumns = `id, profile_id, platform, content, media_urls, scheduled_time, published_time,
	status, engagement_metrics, created_at, updated_at`

const (
	defaultListLimit = 50
	maxListLimit     = 200
	// RecentLimit is the dashboard's recent-posts size.
	RecentLimit = 5
)

// PostFilter narrows List. Zero values mean no filter.
type PostFilter struct {
	Status        *models.PostStatus
	Platform      *models.Platform
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Limit         int
	Offset        int
}

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *models.SocialPost) error {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.MediaURLs == nil {
		p.MediaURLs = []string{}
	}

	query := `
		INSERT INTO social_posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ProfileID, p.Platform, p.Content, p.MediaURLs, p.ScheduledTime, p.PublishedTime,
		p.Status, p.EngagementMetrics, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", mapError(err))
	}
	return nil
}

// Get returns the post only if it belongs to profileID.
func (r *PostRepository) Get(ctx context.Context, profileID, id string) (*models.SocialPost, error) {
	var p models.SocialPost
	query := `SELECT ` + postColumns + ` FROM social_posts WHERE id = $1 AND profile_id = $2`
	if err := r.db.GetContext(ctx, &p, query, id, profileID); err != nil {
		return nil, fmt.Errorf("get post: %w", mapError(err))
	}
	return &p, nil
}

// List returns the profile's posts, newest first.
func (r *PostRepository) List(ctx context.Context, profileID string, f PostFilter) ([]models.SocialPost, error) {
	where := []string{"profile_id = $1"}
	args := []any{profileID}

	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.Platform != nil {
		add("platform = $%d", *f.Platform)
	}
	if f.ScheduledFrom != nil {
		add("scheduled_time >= $%d", *f.ScheduledFrom)
	}
	if f.ScheduledTo != nil {
		add("scheduled_time < $%d", *f.ScheduledTo)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	args = append(args, limit, max(f.Offset, 0))

	query := fmt.Sprintf(`SELECT %s FROM social_posts WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		postColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	posts := []models.SocialPost{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Recent returns the newest limit posts.
func (r *PostRepository) Recent(ctx context.Context, profileID string, limit int) ([]models.SocialPost, error) {
	return r.List(ctx, profileID, PostFilter{Limit: limit})
}

// CountByStatus returns a count for every status, including zeros.
func (r *PostRepository) CountByStatus(ctx context.Context, profileID string) (map[models.PostStatus]int, error) {
	rows := []struct {
		Status models.PostStatus `db:"status"`
		Count  int               `db:"count"`
	}{}
	query := `SELECT status, COUNT(*) AS count FROM social_posts WHERE profile_id = $1 GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query, profileID); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	counts := make(map[models.PostStatus]int, len(models.PostStatuses))
	for _, s := range models.PostStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *PostRepository) Update(ctx context.Context, p *models.SocialPost) error {
	p.UpdatedAt = time.Now().UTC()
	if p.MediaURLs == nil {
		p.MediaURLs = []string{}
	}

	query := `
		UPDATE social_posts
		SET platform = $1, content = $2, media_urls = $3, scheduled_time = $4, published_time = $5,
		    status = $6, engagement_metrics = $7, updated_at = $8
		WHERE id = $9 AND profile_id = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Platform, p.Content, p.MediaURLs, p.ScheduledTime, p.PublishedTime,
		p.Status, p.EngagementMetrics, p.UpdatedAt,
		p.ID, p.ProfileID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", mapError(err))
	}
	if err = requireAffected(res); err != nil {
		return fmt.Errorf("update post %s: %w", p.ID, err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, profileID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM social_posts WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		return fmt.Errorf("delete post: %w", mapError(err))
	}
	if err = requireAffected(res); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
