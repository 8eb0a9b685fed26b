package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/jonesrussell/postcraft/infrastructure/config"
	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
	infralogger "github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/infrastructure/metrics"
	"github.com/jonesrussell/postcraft/internal/api"
	"github.com/jonesrussell/postcraft/internal/events"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/handlers"
	"github.com/jonesrussell/postcraft/internal/identity"
	"github.com/jonesrussell/postcraft/internal/preview"
	"github.com/jonesrussell/postcraft/internal/ratelimit"
)

const secret = "router-test-secret-0123456789abcdef"

type echoProvider struct{}

func (echoProvider) Name() string { return "echo" }

func (echoProvider) Generate(_ context.Context, prompt string, _ int) (generation.Completion, error) {
	return generation.Completion{Text: prompt, Model: "echo", Confidence: 1}, nil
}

func newTestServer(t *testing.T, dbPing func(context.Context) error) http.Handler {
	t.Helper()
	log := infralogger.NewNop()

	svc, err := generation.NewService(log, []generation.Provider{echoProvider{}})
	require.NoError(t, err)

	idp := identity.NewClient(identity.Config{}, &http.Client{}, nil, log)
	var publisher *events.Publisher

	h := api.Handlers{
		Auth:       handlers.NewAuthHandler(idp, log),
		Profile:    handlers.NewProfileHandler(nil, log),
		Post:       handlers.NewPostHandler(nil, nil, svc, publisher, preview.NewRenderer(), log),
		Generation: handlers.NewGenerationHandler(svc, log),
		Plan:       handlers.NewPlanHandler(nil, nil, log),
		Dashboard:  handlers.NewDashboardHandler(nil, nil, log),
	}

	srv := api.NewServer(h, api.ServerOptions{
		Server:    infraconfig.ServerConfig{Port: 8080},
		Version:   "test",
		Validator: infrajwt.NewValidator(secret, infrajwt.DefaultAudience),
		Limiter:   ratelimit.New(ratelimit.Config{Enabled: true, RequestsPerMinute: 1, Burst: 1}),
		Registry:  metrics.NewRegistry(),
		DBPing:    dbPing,
	}, log)
	return srv.Router()
}

func request(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_PublicRoutes(t *testing.T) {
	h := newTestServer(t, func(context.Context) error { return nil })

	w := request(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database"`)

	w = request(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, h, http.MethodPost, "/api/v1/auth/signin", `{"email":"a@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_HealthUnhealthyWithoutDatabase(t *testing.T) {
	h := newTestServer(t, func(context.Context) error { return errors.New("connection refused") })

	w := request(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_ProtectedRoutesNeedToken(t *testing.T) {
	h := newTestServer(t, nil)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/posts"},
		{http.MethodPost, "/api/v1/generate"},
		{http.MethodGet, "/api/v1/plans/weekly"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/auth/me"},
	} {
		w := request(t, h, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestServer_GenerateIsRateLimited(t *testing.T) {
	h := newTestServer(t, nil)
	token, err := infrajwt.NewIssuer(secret, time.Hour).Issue("user-1", "user-1@example.com")
	require.NoError(t, err)

	body := `{"topic":"launch day","platform":"linkedin"}`
	w := request(t, h, http.MethodPost, "/api/v1/generate", body, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Create a linkedin post about: launch day")

	w = request(t, h, http.MethodPost, "/api/v1/generate", body, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Plans do not share the generation bucket.
	w = request(t, h, http.MethodGet, "/api/v1/plans/weekly?target_audience=founders", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
