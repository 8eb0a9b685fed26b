package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	infraevents "github.com/jonesrussell/postcraft/infrastructure/events"
	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/identity"
	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/repository"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter mounts routes behind the real JWT middleware.
func newRouter(register func(g *gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/v1", infrajwt.Middleware(infrajwt.NewValidator(testSecret, infrajwt.DefaultAudience)))
	register(g)
	return r
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := infrajwt.NewIssuer(testSecret, time.Hour).Issue(userID, userID+"@example.com")
	require.NoError(t, err)
	return tok
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func sampleProfile() *models.BusinessProfile {
	return &models.BusinessProfile{
		ID:             "profile-1",
		UserID:         "user-1",
		BusinessName:   "Bean There",
		Industry:       "Food & Beverage",
		TargetAudience: "remote workers",
		BrandVoice:     "Friendly",
		MembershipTier: models.TierFree,
	}
}

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) Create(ctx context.Context, p *models.BusinessProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfiles) GetByUserID(ctx context.Context, userID string) (*models.BusinessProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Copy so handlers mutating the profile do not leak between calls.
	p := *args.Get(0).(*models.BusinessProfile)
	return &p, args.Error(1)
}

func (m *mockProfiles) Update(ctx context.Context, p *models.BusinessProfile) error {
	return m.Called(ctx, p).Error(0)
}

type mockPosts struct{ mock.Mock }

func (m *mockPosts) Create(ctx context.Context, p *models.SocialPost) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPosts) Get(ctx context.Context, profileID, id string) (*models.SocialPost, error) {
	args := m.Called(ctx, profileID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	p := *args.Get(0).(*models.SocialPost)
	return &p, args.Error(1)
}

func (m *mockPosts) List(ctx context.Context, profileID string, f repository.PostFilter) ([]models.SocialPost, error) {
	args := m.Called(ctx, profileID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SocialPost), args.Error(1)
}

func (m *mockPosts) Recent(ctx context.Context, profileID string, limit int) ([]models.SocialPost, error) {
	args := m.Called(ctx, profileID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SocialPost), args.Error(1)
}

func (m *mockPosts) CountByStatus(ctx context.Context, profileID string) (map[models.PostStatus]int, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.PostStatus]int), args.Error(1)
}

func (m *mockPosts) Update(ctx context.Context, p *models.SocialPost) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPosts) Delete(ctx context.Context, profileID, id string) error {
	return m.Called(ctx, profileID, id).Error(0)
}

type mockPlans struct{ mock.Mock }

func (m *mockPlans) Save(ctx context.Context, p *models.ContentPlan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPlans) List(ctx context.Context, profileID string) ([]models.ContentPlan, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContentPlan), args.Error(1)
}

func (m *mockPlans) UpdateStatus(ctx context.Context, profileID, id string, status models.PlanStatus) error {
	return m.Called(ctx, profileID, id, status).Error(0)
}

type mockGenerator struct{ mock.Mock }

func (m *mockGenerator) Generate(ctx context.Context, req generation.Request) (generation.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(generation.Result), args.Error(1)
}

type mockIdentity struct{ mock.Mock }

func (m *mockIdentity) SignUp(ctx context.Context, email, password string) (*identity.SignUpResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.SignUpResult), args.Error(1)
}

func (m *mockIdentity) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *mockIdentity) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *mockIdentity) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockIdentity) ResetPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// recordingPublisher captures events synchronously.
type recordingPublisher struct {
	mu     sync.Mutex
	events []infraevents.PostEvent
}

func (p *recordingPublisher) PublishAsync(e infraevents.PostEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []infraevents.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]infraevents.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}
