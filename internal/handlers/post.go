package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/events"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/preview"
	"github.com/jonesrussell/postcraft/internal/repository"
)

type PostHandler struct {
	profiles  ProfileStore
	posts     PostStore
	generator Generator
	publisher EventPublisher
	renderer  *preview.Renderer
	log       logger.Logger
	now       func() time.Time
}

func NewPostHandler(
	profiles ProfileStore,
	posts PostStore,
	generator Generator,
	publisher EventPublisher,
	renderer *preview.Renderer,
	log logger.Logger,
) *PostHandler {
	return &PostHandler{
		profiles:  profiles,
		posts:     posts,
		generator: generator,
		publisher: publisher,
		renderer:  renderer,
		log:       log,
		now:       time.Now,
	}
}

type createPostRequest struct {
	Platform      models.Platform   `json:"platform"`
	Content       string            `json:"content"`
	MediaURLs     []string          `json:"media_urls"`
	ScheduledTime *time.Time        `json:"scheduled_time"`
	Status        models.PostStatus `json:"status"`
}

func (h *PostHandler) Create(c *gin.Context) {
	profile, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	post := &models.SocialPost{
		ProfileID: profile.ID,
		Platform:  req.Platform,
		Content:   req.Content,
		MediaURLs: pq.StringArray(req.MediaURLs),
		Status:    req.Status,
	}
	if req.ScheduledTime != nil {
		t := req.ScheduledTime.UTC()
		post.ScheduledTime = &t
	}
	if post.Status == "" {
		post.Status = models.StatusDraft
		if post.ScheduledTime != nil {
			post.Status = models.StatusScheduled
		}
	}
	if err := post.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !h.save(c, post, false) {
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GenerateAndSave runs the generation chain and stores the result as a
// draft with any hashtags appended.
func (h *PostHandler) GenerateAndSave(c *gin.Context) {
	profile, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}

	var req generation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Tone == "" {
		req.Tone = profile.BrandVoice
	}

	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		status, msg := generationStatus(err)
		requestLogger(c).Warn("Generation failed", logger.Platform(string(req.Platform)), logger.Error(err))
		respondError(c, status, msg)
		return
	}
	if strings.TrimSpace(result.Content) == "" {
		respondError(c, http.StatusBadGateway, "provider returned empty content")
		return
	}

	post := &models.SocialPost{
		ProfileID: profile.ID,
		Platform:  req.Platform,
		Content:   generation.AppendHashtags(result.Content, result.Hashtags),
		Status:    models.StatusDraft,
	}
	if err = post.Validate(); err != nil {
		respondError(c, http.StatusBadGateway, "generated content could not be saved: "+err.Error())
		return
	}
	if !h.save(c, post, true) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post, "generation": result})
}

func (h *PostHandler) save(c *gin.Context, post *models.SocialPost, generated bool) bool {
	if err := h.posts.Create(c.Request.Context(), post); err != nil {
		requestLogger(c).Error("Failed to create post", logger.ProfileID(post.ProfileID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create post")
		return false
	}

	h.log.Info("Post created",
		logger.PostID(post.ID),
		logger.ProfileID(post.ProfileID),
		logger.Platform(string(post.Platform)),
		logger.Bool("generated", generated),
	)
	h.publisher.PublishAsync(events.PostCreated(post, generated))
	return true
}

func (h *PostHandler) List(c *gin.Context) {
	profile, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}

	filter, err := parsePostFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	posts, err := h.posts.List(c.Request.Context(), profile.ID, filter)
	if err != nil {
		requestLogger(c).Error("Failed to list posts", logger.ProfileID(profile.ID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

func parsePostFilter(c *gin.Context) (repository.PostFilter, error) {
	var f repository.PostFilter
	if v := c.Query("status"); v != "" {
		s, err := models.ParsePostStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &s
	}
	if v := c.Query("platform"); v != "" {
		p, err := models.ParsePlatform(v)
		if err != nil {
			return f, err
		}
		f.Platform = &p
	}
	for name, dst := range map[string]**time.Time{"scheduled_from": &f.ScheduledFrom, "scheduled_to": &f.ScheduledTo} {
		if v := c.Query(name); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return f, errors.New(name + " must be RFC3339")
			}
			*dst = &t
		}
	}
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		if v := c.Query(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return f, errors.New(name + " must be a non-negative integer")
			}
			*dst = n
		}
	}
	return f, nil
}

// loadPost resolves :id within the caller's profile.
func (h *PostHandler) loadPost(c *gin.Context) (*models.SocialPost, bool) {
	profile, ok := callerProfile(c, h.profiles)
	if !ok {
		return nil, false
	}
	id := c.Param("id")
	post, err := h.posts.Get(c.Request.Context(), profile.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return nil, false
		}
		requestLogger(c).Error("Failed to load post", logger.PostID(id), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return nil, false
	}
	return post, true
}

func (h *PostHandler) Get(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	var upd models.PostUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	changed := upd.Apply(post)
	if len(changed) == 0 {
		c.JSON(http.StatusOK, post)
		return
	}
	if err := post.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !h.update(c, post) {
		return
	}

	h.publisher.PublishAsync(events.PostUpdated(post, changed))
	c.JSON(http.StatusOK, post)
}

type scheduleRequest struct {
	ScheduledTime time.Time `binding:"required" json:"scheduled_time"`
}

func (h *PostHandler) Schedule(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "scheduled_time is required (RFC3339)")
		return
	}

	if err := post.Schedule(req.ScheduledTime, h.now()); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, models.ErrValidation) {
			status = http.StatusConflict
		}
		respondError(c, status, err.Error())
		return
	}
	if !h.update(c, post) {
		return
	}

	h.log.Info("Post scheduled",
		logger.PostID(post.ID),
		logger.Time("scheduled_time", *post.ScheduledTime),
	)
	h.publisher.PublishAsync(events.PostScheduled(post))
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) update(c *gin.Context, post *models.SocialPost) bool {
	if err := h.posts.Update(c.Request.Context(), post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return false
		}
		requestLogger(c).Error("Failed to update post", logger.PostID(post.ID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to update post")
		return false
	}
	return true
}

func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), post.ProfileID, post.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		requestLogger(c).Error("Failed to delete post", logger.PostID(post.ID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}

	h.log.Info("Post deleted", logger.PostID(post.ID))
	h.publisher.PublishAsync(events.PostDeleted(post))
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) Preview(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	card, err := h.renderer.CardFor(post)
	if err != nil {
		requestLogger(c).Error("Failed to render preview", logger.PostID(post.ID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to render preview")
		return
	}
	c.JSON(http.StatusOK, card)
}
