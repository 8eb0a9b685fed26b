package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	infraevents "github.com/jonesrussell/postcraft/infrastructure/events"
	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/handlers"
	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/preview"
	"github.com/jonesrussell/postcraft/internal/repository"
)

type postFixture struct {
	profiles  *mockProfiles
	posts     *mockPosts
	generator *mockGenerator
	publisher *recordingPublisher
	router    *gin.Engine
	token     string
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	f := &postFixture{
		profiles:  &mockProfiles{},
		posts:     &mockPosts{},
		generator: &mockGenerator{},
		publisher: &recordingPublisher{},
		token:     tokenFor(t, "user-1"),
	}
	f.profiles.On("GetByUserID", mock.Anything, "user-1").Return(sampleProfile(), nil)

	h := handlers.NewPostHandler(f.profiles, f.posts, f.generator, f.publisher, preview.NewRenderer(), logger.NewNop())
	f.router = newRouter(func(g *gin.RouterGroup) {
		g.GET("/posts", h.List)
		g.POST("/posts", h.Create)
		g.POST("/posts/generate", h.GenerateAndSave)
		g.GET("/posts/:id", h.Get)
		g.PUT("/posts/:id", h.Update)
		g.DELETE("/posts/:id", h.Delete)
		g.POST("/posts/:id/schedule", h.Schedule)
		g.GET("/posts/:id/preview", h.Preview)
	})
	return f
}

func samplePost() *models.SocialPost {
	return &models.SocialPost{
		ID:        "post-1",
		ProfileID: "profile-1",
		Platform:  models.PlatformInstagram,
		Content:   "**Fresh** roast",
		Status:    models.StatusDraft,
	}
}

func TestPostHandler_Create(t *testing.T) {
	t.Parallel()

	f := newPostFixture(t)
	f.posts.On("Create", mock.Anything, mock.MatchedBy(func(p *models.SocialPost) bool {
		return p.ProfileID == "profile-1" && p.Status == models.StatusDraft && p.Platform == models.PlatformFacebook
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.SocialPost).ID = "post-new"
	}).Return(nil)

	w := doJSON(t, f.router, http.MethodPost, "/api/v1/posts",
		map[string]any{"platform": "facebook", "content": "Open late tonight"}, f.token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "post-new", decode[models.SocialPost](t, w).ID)
	assert.Equal(t, []infraevents.EventType{infraevents.PostCreated}, f.publisher.types())

	w = doJSON(t, f.router, http.MethodPost, "/api/v1/posts",
		map[string]any{"platform": "myspace", "content": "x"}, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, f.router, http.MethodPost, "/api/v1/posts",
		map[string]any{"platform": "tiktok", "content": "   "}, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.posts.AssertNumberOfCalls(t, "Create", 1)
}

func TestPostHandler_CreateWithoutProfile(t *testing.T) {
	t.Parallel()

	f := newPostFixture(t)
	f.profiles.On("GetByUserID", mock.Anything, "user-2").Return(nil, repository.ErrNotFound)

	w := doJSON(t, f.router, http.MethodPost, "/api/v1/posts",
		map[string]any{"platform": "facebook", "content": "x"}, tokenFor(t, "user-2"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostHandler_List(t *testing.T) {
	t.Parallel()

	f := newPostFixture(t)
	scheduled := models.StatusScheduled
	f.posts.On("List", mock.Anything, "profile-1", repository.PostFilter{Status: &scheduled, Limit: 10}).
		Return([]models.SocialPost{*samplePost()}, nil)

	w := doJSON(t, f.router, http.MethodGet, "/api/v1/posts?status=Scheduled&limit=10", nil, f.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 1, decode[map[string]any](t, w)["count"], 0)

	for _, q := range []string{"status=archived", "limit=-1", "platform=myspace", "scheduled_from=yesterday"} {
		w = doJSON(t, f.router, http.MethodGet, "/api/v1/posts?"+q, nil, f.token)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestPostHandler_GetUpdateDelete(t *testing.T) {
	t.Parallel()

	f := newPostFixture(t)
	f.posts.On("Get", mock.Anything, "profile-1", "post-1").Return(samplePost(), nil)
	f.posts.On("Get", mock.Anything, "profile-1", "missing").Return(nil, repository.ErrNotFound)
	f.posts.On("Update", mock.Anything, mock.MatchedBy(func(p *models.SocialPost) bool {
		return p.Content == "Edited"
	})).Return(nil)
	f.posts.On("Delete", mock.Anything, "profile-1", "post-1").Return(nil)

	w := doJSON(t, f.router, http.MethodGet, "/api/v1/posts/post-1", nil, f.token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, f.router, http.MethodGet, "/api/v1/posts/missing", nil, f.token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, f.router, http.MethodPut, "/api/v1/posts/post-1", map[string]any{"content": "Edited"}, f.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Edited", decode[models.SocialPost](t, w).Content)

	w = doJSON(t, f.router, http.MethodPut, "/api/v1/posts/post-1", map[string]any{"status": "bogus"}, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, f.router, http.MethodDelete, "/api/v1/posts/post-1", nil, f.token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, []infraevents.EventType{infraevents.PostUpdated, infraevents.PostDeleted}, f.publisher.types())
}

func TestPostHandler_Schedule(t *testing.T) {
	t.Parallel()

	f := newPostFixture(t)
	f.posts.On("Get", mock.Anything, "profile-1", "post-1").Return(samplePost(), nil)
	published := samplePost()
	published.ID = "post-2"
	published.Status = models.StatusPublished
	f.posts.On("Get", mock.Anything, "profile-1", "post-2").Return(published, nil)
	f.posts.On("Update", mock.Anything, mock.MatchedBy(func(p *models.SocialPost) bool {
		return p.Status == models.StatusScheduled && p.ScheduledTime != nil
	})).Return(nil)

	future := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	w := doJSON(t, f.router, http.MethodPost, "/api/v1/posts/post-1/schedule",
		map[string]any{"scheduled_time": future.Format(time.RFC3339)}, f.token)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.SocialPost](t, w)
	assert.Equal(t, models.StatusScheduled, got.Status)
	require.NotNil(t, got.ScheduledTime)
	assert.True(t, future.Equal(*got.ScheduledTime))

	w = doJSON(t, f.router, http.MethodPost, "/api/v1/posts/post-1/schedule",
		map[string]any{"scheduled_time": "2020-01-01T00:00:00Z"}, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, f.router, http.MethodPost, "/api/v1/posts/post-2/schedule",
		map[string]any{"scheduled_time": future.Format(time.RFC3339)}, f.token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, f.router, http.MethodPost, "/api/v1/posts/post-1/schedule", `{}`, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []infraevents.EventType{infraevents.PostScheduled}, f.publisher.types())
}

func TestPostHandler_GenerateAndSave(t *testing.T) {
	t.Parallel()

	f := newPostFixture(t)
	f.generator.On("Generate", mock.Anything, generation.Request{
		Topic: "Best Coffee Shop!!", Platform: models.PlatformInstagram, Tone: "Friendly", IncludeHashtags: true,
	}).Return(generation.Result{
		Content:         "Come try our new roast!",
		Hashtags:        []string{"#best", "#coffee", "#shop"},
		ConfidenceScore: 0.92,
		Provider:        generation.RoleFallback,
		ModelUsed:       "openai",
	}, nil)
	f.posts.On("Create", mock.Anything, mock.MatchedBy(func(p *models.SocialPost) bool {
		return p.Content == "Come try our new roast!\n\n#best #coffee #shop" && p.Status == models.StatusDraft
	})).Return(nil)

	w := doJSON(t, f.router, http.MethodPost, "/api/v1/posts/generate", map[string]any{
		"topic": "Best Coffee Shop!!", "platform": "instagram", "include_hashtags": true,
	}, f.token)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode[struct {
		Post       models.SocialPost `json:"post"`
		Generation generation.Result `json:"generation"`
	}](t, w)
	assert.Equal(t, generation.RoleFallback, body.Generation.Provider)
	assert.Equal(t, models.StatusDraft, body.Post.Status)

	f.posts.AssertExpectations(t)
	f.generator.AssertExpectations(t)

	created := f.publisher.events
	require.Len(t, created, 1)
	assert.Equal(t, infraevents.PostCreatedPayload{Platform: "instagram", Status: "draft", Generated: true}, created[0].Payload)
}

func TestPostHandler_GenerateAndSave_Failures(t *testing.T) {
	t.Parallel()

	f := newPostFixture(t)
	f.generator.On("Generate", mock.Anything, mock.MatchedBy(func(r generation.Request) bool { return r.Topic == "down" })).
		Return(generation.Result{}, errors.Join(generation.ErrAllProvidersFailed, errors.New("503")))
	f.generator.On("Generate", mock.Anything, mock.MatchedBy(func(r generation.Request) bool { return r.Topic == "empty" })).
		Return(generation.Result{Content: "  ", Provider: generation.RolePrimary}, nil)

	w := doJSON(t, f.router, http.MethodPost, "/api/v1/posts/generate",
		map[string]any{"topic": "down", "platform": "facebook"}, f.token)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doJSON(t, f.router, http.MethodPost, "/api/v1/posts/generate",
		map[string]any{"topic": "empty", "platform": "facebook"}, f.token)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPostHandler_Preview(t *testing.T) {
	t.Parallel()

	f := newPostFixture(t)
	f.posts.On("Get", mock.Anything, "profile-1", "post-1").Return(samplePost(), nil)

	w := doJSON(t, f.router, http.MethodGet, "/api/v1/posts/post-1/preview", nil, f.token)
	require.Equal(t, http.StatusOK, w.Code)
	card := decode[preview.Card](t, w)
	assert.Contains(t, card.HTML, "<strong>Fresh</strong>")
	assert.False(t, card.OverLimit)
}
