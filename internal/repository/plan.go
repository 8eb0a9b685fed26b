package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/postcraft/internal/models"
)

const planColumns = `id, profile_id, week_start_date, posts, status, created_at, updated_at`

type PlanRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Save stores the plan for its week. Saving the same week again replaces
// the entries and resets the status to pending.
func (r *PlanRepository) Save(ctx context.Context, p *models.ContentPlan) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.WeekStartDate = models.WeekStart(p.WeekStartDate)
	p.Status = models.PlanPending
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO content_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (profile_id, week_start_date)
		DO UPDATE SET posts = EXCLUDED.posts, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.ProfileID, p.WeekStartDate, p.Posts, p.Status, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save plan: %w", mapError(err))
	}
	return nil
}

// List returns the profile's plans, latest week first.
func (r *PlanRepository) List(ctx context.Context, profileID string) ([]models.ContentPlan, error) {
	plans := []models.ContentPlan{}
	query := `SELECT ` + planColumns + ` FROM content_plans WHERE profile_id = $1 ORDER BY week_start_date DESC`
	if err := r.db.SelectContext(ctx, &plans, query, profileID); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (r *PlanRepository) UpdateStatus(ctx context.Context, profileID, id string, status models.PlanStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE content_plans SET status = $1, updated_at = $2 WHERE id = $3 AND profile_id = $4`,
		status, time.Now().UTC(), id, profileID,
	)
	if err != nil {
		return fmt.Errorf("update plan status: %w", mapError(err))
	}
	if err = requireAffected(res); err != nil {
		return fmt.Errorf("update plan %s: %w", id, err)
	}
	return nil
}
