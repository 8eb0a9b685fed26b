package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/handlers"
	"github.com/jonesrussell/postcraft/internal/models"
)

func TestGenerationHandler_Generate(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(r generation.Request) bool { return r.Topic == "ok" })).
		Return(generation.Result{Content: "Hello", Provider: generation.RolePrimary, ModelUsed: "gpt2", ConfidenceScore: 0.85}, nil)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(r generation.Request) bool { return r.Topic == "bad-platform" })).
		Return(generation.Result{}, fmt.Errorf("%w: %q", models.ErrInvalidPlatform, "myspace"))
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(r generation.Request) bool { return r.Topic == "down" })).
		Return(generation.Result{}, fmt.Errorf("%w: boom", generation.ErrAllProvidersFailed))
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(r generation.Request) bool { return r.Topic == "slow" })).
		Return(generation.Result{}, fmt.Errorf("generation stopped: %w",
			errors.Join(context.DeadlineExceeded, fmt.Errorf("huggingface: %w", context.DeadlineExceeded))))
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(r generation.Request) bool { return r.Topic == "client-timeouts" })).
		Return(generation.Result{}, fmt.Errorf("%w: %w", generation.ErrAllProvidersFailed,
			errors.Join(fmt.Errorf("huggingface: %w", context.DeadlineExceeded), fmt.Errorf("openai: %w", context.DeadlineExceeded))))

	h := handlers.NewGenerationHandler(gen, logger.NewNop())
	r := newRouter(func(g *gin.RouterGroup) { g.POST("/generate", h.Generate) })
	token := tokenFor(t, "user-1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/generate", map[string]any{"topic": "ok", "platform": "linkedin"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[generation.Result](t, w)
	assert.Equal(t, "Hello", got.Content)
	assert.Equal(t, generation.RolePrimary, got.Provider)

	tests := []struct {
		topic string
		want  int
	}{
		{"bad-platform", http.StatusBadRequest},
		{"down", http.StatusBadGateway},
		{"slow", http.StatusGatewayTimeout},
		{"client-timeouts", http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		w = doJSON(t, r, http.MethodPost, "/api/v1/generate", map[string]any{"topic": tt.topic, "platform": "linkedin"}, token)
		assert.Equal(t, tt.want, w.Code, tt.topic)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/generate", `{"topic":`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/generate", map[string]any{"topic": "ok", "platform": "linkedin"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
