package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/postcraft/internal/models"
)

const profileColumns = `id, user_id, business_name, industry, target_audience, brand_voice,
	logo_url, website_url, membership_tier, created_at, updated_at`

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create assigns ID and timestamps. A second profile for the same user
// returns ErrConflict.
func (r *ProfileRepository) Create(ctx context.Context, p *models.BusinessProfile) error {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO business_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.BusinessName, p.Industry, p.TargetAudience, p.BrandVoice,
		p.LogoURL, p.WebsiteURL, p.MembershipTier, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", mapError(err))
	}
	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.BusinessProfile, error) {
	var p models.BusinessProfile
	query := `SELECT ` + profileColumns + ` FROM business_profiles WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		return nil, fmt.Errorf("get profile by user: %w", mapError(err))
	}
	return &p, nil
}

// Update writes every mutable column. The user_id guard keeps one user from
// updating another's profile.
func (r *ProfileRepository) Update(ctx context.Context, p *models.BusinessProfile) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE business_profiles
		SET business_name = $1, industry = $2, target_audience = $3, brand_voice = $4,
		    logo_url = $5, website_url = $6, membership_tier = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		p.BusinessName, p.Industry, p.TargetAudience, p.BrandVoice,
		p.LogoURL, p.WebsiteURL, p.MembershipTier, p.UpdatedAt,
		p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", mapError(err))
	}
	if err = requireAffected(res); err != nil {
		return fmt.Errorf("update profile %s: %w", p.ID, err)
	}
	return nil
}
