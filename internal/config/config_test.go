package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/jonesrussell/postcraft/infrastructure/config"
	"github.com/jonesrussell/postcraft/internal/config"
	"github.com/jonesrussell/postcraft/internal/generation"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeConfig(t, `
debug: true
server:
  port: 8090
database:
  host: db
  user: postcraft
  password: secret
  database: postcraft
auth:
  jwt_secret: `+testSecret+`
identity:
  url: https://project.supabase.co
  anon_key: anon
  breaker:
    enabled: true
generation:
  fallback: Anthropic
  huggingface:
    api_key: hf-key
rate_limit:
  enabled: true
  requests_per_minute: 30
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "https://project.supabase.co", cfg.Identity.URL)
	assert.True(t, cfg.Identity.Configured())
	assert.True(t, cfg.Identity.Breaker.Enabled)
	assert.Equal(t, 5, cfg.Identity.Breaker.FailureThreshold)
	assert.Equal(t, config.FallbackAnthropic, cfg.Generation.Fallback)
	assert.Equal(t, generation.DefaultHuggingFaceURL, cfg.Generation.HuggingFace.Endpoint)
	assert.Equal(t, generation.DefaultAnthropicModel, cfg.Generation.Anthropic.Model)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "authenticated", cfg.Auth.Audience)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	path := writeConfig(t, `
generation:
  openai:
    api_key: sk-yaml
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Generation.OpenAI.APIKey)
	assert.Equal(t, "https://env.supabase.co", cfg.Identity.URL)
	assert.Equal(t, config.FallbackOpenAI, cfg.Generation.Fallback)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing secret", "database: {host: db}\n", "auth.jwt_secret"},
		{"short secret", "auth: {jwt_secret: short}\n", "auth.jwt_secret"},
		{"unknown fallback", "auth: {jwt_secret: " + testSecret + "}\ngeneration: {fallback: cohere}\n", "generation.fallback"},
		{"bad endpoint", "auth: {jwt_secret: " + testSecret + "}\ngeneration: {huggingface: {endpoint: not-a-url}}\n", "generation.huggingface.endpoint"},
		{"bad log level", "auth: {jwt_secret: " + testSecret + "}\nlogging: {level: loud}\n", "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
			var verr *infraconfig.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad_DebugUsesDevelopmentSecret(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := config.Load(writeConfig(t, "debug: true\n"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(cfg.Auth.JWTSecret), 32)
}

func TestLoadOptional_NoFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := config.LoadOptional(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, config.FallbackOpenAI, cfg.Generation.Fallback)
	assert.Equal(t, generation.DefaultOpenAIModel, cfg.Generation.OpenAI.Model)
}
