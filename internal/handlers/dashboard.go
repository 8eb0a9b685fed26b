package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/repository"
)

type DashboardHandler struct {
	profiles ProfileStore
	posts    PostStore
	log      logger.Logger
}

func NewDashboardHandler(profiles ProfileStore, posts PostStore, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{profiles: profiles, posts: posts, log: log}
}

// Summary is the dashboard payload.
type Summary struct {
	Profile     *models.BusinessProfile   `json:"profile"`
	TotalPosts  int                       `json:"total_posts"`
	ByStatus    map[models.PostStatus]int `json:"by_status"`
	RecentPosts []models.SocialPost       `json:"recent_posts"`
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	profile, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}

	var (
		counts map[models.PostStatus]int
		recent []models.SocialPost
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		counts, err = h.posts.CountByStatus(ctx, profile.ID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = h.posts.Recent(ctx, profile.ID, repository.RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		requestLogger(c).Error("Failed to build dashboard", logger.ProfileID(profile.ID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, Summary{
		Profile:     profile,
		TotalPosts:  total,
		ByStatus:    counts,
		RecentPosts: recent,
	})
}
