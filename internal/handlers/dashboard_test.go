package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/handlers"
	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/repository"
)

func TestDashboardHandler_Summary(t *testing.T) {
	t.Parallel()

	profiles := &mockProfiles{}
	profiles.On("GetByUserID", mock.Anything, "user-1").Return(sampleProfile(), nil)
	profiles.On("GetByUserID", mock.Anything, "user-3").Return(&models.BusinessProfile{ID: "profile-3"}, nil)
	posts := &mockPosts{}
	posts.On("CountByStatus", mock.Anything, "profile-1").Return(map[models.PostStatus]int{
		models.StatusDraft: 2, models.StatusScheduled: 1, models.StatusPublished: 4,
	}, nil)
	posts.On("Recent", mock.Anything, "profile-1", repository.RecentLimit).Return([]models.SocialPost{*samplePost()}, nil)
	posts.On("CountByStatus", mock.Anything, "profile-3").Return(nil, errors.New("db down"))
	posts.On("Recent", mock.Anything, "profile-3", repository.RecentLimit).Return([]models.SocialPost{}, nil)

	h := handlers.NewDashboardHandler(profiles, posts, logger.NewNop())
	r := newRouter(func(g *gin.RouterGroup) { g.GET("/dashboard", h.Summary) })

	w := doJSON(t, r, http.MethodGet, "/api/v1/dashboard", nil, tokenFor(t, "user-1"))
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[handlers.Summary](t, w)
	assert.Equal(t, 7, got.TotalPosts)
	assert.Equal(t, 4, got.ByStatus[models.StatusPublished])
	assert.Len(t, got.RecentPosts, 1)
	assert.Equal(t, "Bean There", got.Profile.BusinessName)

	w = doJSON(t, r, http.MethodGet, "/api/v1/dashboard", nil, tokenFor(t, "user-3"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
