// Package handlers holds the gin handlers behind /api/v1.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	infraevents "github.com/jonesrussell/postcraft/infrastructure/events"
	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/identity"
	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/repository"
)

type ProfileStore interface {
	Create(ctx context.Context, p *models.BusinessProfile) error
	GetByUserID(ctx context.Context, userID string) (*models.BusinessProfile, error)
	Update(ctx context.Context, p *models.BusinessProfile) error
}

type PostStore interface {
	Create(ctx context.Context, p *models.SocialPost) error
	Get(ctx context.Context, profileID, id string) (*models.SocialPost, error)
	List(ctx context.Context, profileID string, f repository.PostFilter) ([]models.SocialPost, error)
	Recent(ctx context.Context, profileID string, limit int) ([]models.SocialPost, error)
	CountByStatus(ctx context.Context, profileID string) (map[models.PostStatus]int, error)
	Update(ctx context.Context, p *models.SocialPost) error
	Delete(ctx context.Context, profileID, id string) error
}

type PlanStore interface {
	Save(ctx context.Context, p *models.ContentPlan) error
	List(ctx context.Context, profileID string) ([]models.ContentPlan, error)
	UpdateStatus(ctx context.Context, profileID, id string, status models.PlanStatus) error
}

type Generator interface {
	Generate(ctx context.Context, req generation.Request) (generation.Result, error)
}

type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*identity.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	ResetPassword(ctx context.Context, email string) error
}

// EventPublisher is satisfied by *events.Publisher, including a nil one.
type EventPublisher interface {
	PublishAsync(event infraevents.PostEvent)
}

const errProfileRequired = "business profile not found; complete onboarding first"

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func requestLogger(c *gin.Context) logger.Logger {
	return logger.FromContext(c.Request.Context())
}

// userID reads the authenticated subject. Routes using it sit behind the
// JWT middleware, so a miss is a wiring bug and answers 401.
func userID(c *gin.Context) (string, bool) {
	claims, ok := infrajwt.GetClaims(c)
	if !ok || claims.UserID() == "" {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID(), true
}

// callerProfile loads the caller's business profile or answers 404/500.
func callerProfile(c *gin.Context, profiles ProfileStore) (*models.BusinessProfile, bool) {
	uid, ok := userID(c)
	if !ok {
		return nil, false
	}
	p, err := profiles.GetByUserID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, errProfileRequired)
			return nil, false
		}
		requestLogger(c).Error("Failed to load profile", logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return nil, false
	}
	return p, true
}

// generationStatus maps generation errors to HTTP codes.
func generationStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidPlatform):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "content generation timed out"
	case errors.Is(err, generation.ErrAllProvidersFailed):
		return http.StatusBadGateway, "content generation is unavailable, try again later"
	default:
		return http.StatusInternalServerError, "content generation failed"
	}
}
