// Package config holds the postcraft service configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	infraconfig "github.com/jonesrussell/postcraft/infrastructure/config"
	"github.com/jonesrussell/postcraft/infrastructure/profiling"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/identity"
	"github.com/jonesrussell/postcraft/internal/ratelimit"
)

// Fallback providers accepted in generation.fallback.
const (
	FallbackOpenAI    = "openai"
	FallbackAnthropic = "anthropic"
)

const (
	defaultTokenTTL             = 24 * time.Hour
	defaultGenerationTimeout    = 30 * time.Second
	defaultBreakerFailures      = 5
	defaultBreakerOpenTimeout   = 30 * time.Second
	defaultIdentityTimeout      = 10 * time.Second
	minJWTSecretLength          = 32
	defaultDevelopmentJWTSecret = "postcraft-development-secret-change-me"
)

type Config struct {
	Debug      bool                       `env:"APP_DEBUG" yaml:"debug"`
	Server     infraconfig.ServerConfig   `yaml:"server"`
	Database   infraconfig.DatabaseConfig `yaml:"database"`
	Redis      infraconfig.RedisConfig    `yaml:"redis"`
	Logging    infraconfig.LoggingConfig  `yaml:"logging"`
	Auth       AuthConfig                 `yaml:"auth"`
	Identity   IdentityConfig             `yaml:"identity"`
	Generation GenerationConfig           `yaml:"generation"`
	RateLimit  ratelimit.Config           `yaml:"rate_limit"`
	Profiling  ProfilingConfig            `yaml:"profiling"`
}

// AuthConfig verifies identity-provider access tokens. JWTSecret is the
// Supabase project's JWT secret.
type AuthConfig struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
	Audience  string        `env:"AUTH_AUDIENCE"   yaml:"audience"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type IdentityConfig struct {
	identity.Config `yaml:",inline"`
	Timeout         time.Duration `yaml:"timeout"`
	Breaker         BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes an optional circuit breaker.
type BreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	FailureThreshold int           `yaml:"failure_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
}

type GenerationConfig struct {
	// Timeout is the per-request deadline of the shared HTTP client.
	Timeout     time.Duration     `env:"GENERATION_TIMEOUT" yaml:"timeout"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	// Fallback selects the second provider: openai or anthropic.
	Fallback  string          `env:"GENERATION_FALLBACK" yaml:"fallback"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	// Breaker wraps the primary provider only.
	Breaker BreakerConfig `yaml:"breaker"`
}

type HuggingFaceConfig struct {
	Endpoint string `env:"HUGGINGFACE_ENDPOINT" yaml:"endpoint"`
	APIKey   string `env:"HUGGINGFACE_API_KEY"  yaml:"api_key"`
}

type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"  yaml:"api_key"`
	Model   string `env:"OPENAI_MODEL"    yaml:"model"`
	BaseURL string `env:"OPENAI_BASE_URL" yaml:"base_url"`
}

type AnthropicConfig struct {
	APIKey  string `env:"ANTHROPIC_API_KEY"  yaml:"api_key"`
	Model   string `env:"ANTHROPIC_MODEL"    yaml:"model"`
	BaseURL string `env:"ANTHROPIC_BASE_URL" yaml:"base_url"`
}

type ProfilingConfig struct {
	Pprof     profiling.PprofConfig     `yaml:"pprof"`
	Pyroscope profiling.PyroscopeConfig `yaml:"pyroscope"`
}

// Load reads path, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults(path, SetDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOptional is Load for commands that can run without a config file.
// It does not validate the database section.
func LoadOptional(path string) (*Config, error) {
	cfg, err := infraconfig.LoadOptional(path, SetDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err = cfg.Generation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func SetDefaults(cfg *Config) {
	cfg.Server.SetDefaults()
	cfg.Database.SetDefaults()
	cfg.Redis.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.RateLimit.SetDefaults()

	if cfg.Database.Database == "" {
		cfg.Database.Database = "postcraft"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = "authenticated"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
	if cfg.Auth.JWTSecret == "" && cfg.Debug {
		cfg.Auth.JWTSecret = defaultDevelopmentJWTSecret
	}

	if cfg.Identity.Timeout == 0 {
		cfg.Identity.Timeout = defaultIdentityTimeout
	}
	cfg.Identity.Breaker.setDefaults()

	g := &cfg.Generation
	if g.Timeout == 0 {
		g.Timeout = defaultGenerationTimeout
	}
	if g.HuggingFace.Endpoint == "" {
		g.HuggingFace.Endpoint = generation.DefaultHuggingFaceURL
	}
	g.Fallback = strings.ToLower(strings.TrimSpace(g.Fallback))
	if g.Fallback == "" {
		g.Fallback = FallbackOpenAI
	}
	if g.OpenAI.Model == "" {
		g.OpenAI.Model = generation.DefaultOpenAIModel
	}
	if g.Anthropic.Model == "" {
		g.Anthropic.Model = generation.DefaultAnthropicModel
	}
	g.Breaker.setDefaults()
}

func (b *BreakerConfig) setDefaults() {
	if b.FailureThreshold == 0 {
		b.FailureThreshold = defaultBreakerFailures
	}
	if b.OpenTimeout == 0 {
		b.OpenTimeout = defaultBreakerOpenTimeout
	}
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if c.Identity.Configured() {
		if err := infraconfig.ValidateURL("identity.url", c.Identity.URL); err != nil {
			return err
		}
	}
	return c.Generation.Validate()
}

func (c *AuthConfig) Validate() error {
	if err := infraconfig.ValidateRequired("auth.jwt_secret", c.JWTSecret); err != nil {
		return err
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return &infraconfig.ValidationError{
			Field:   "auth.jwt_secret",
			Message: fmt.Sprintf("must be at least %d characters", minJWTSecretLength),
		}
	}
	return nil
}

// Validate never requires API keys; a missing key only makes that
// provider fail at call time.
func (c *GenerationConfig) Validate() error {
	switch c.Fallback {
	case FallbackOpenAI, FallbackAnthropic:
	default:
		return &infraconfig.ValidationError{
			Field:   "generation.fallback",
			Message: "must be one of: openai, anthropic",
		}
	}
	if err := infraconfig.ValidateURL("generation.huggingface.endpoint", c.HuggingFace.Endpoint); err != nil {
		return err
	}
	if c.OpenAI.BaseURL != "" {
		if err := infraconfig.ValidateURL("generation.openai.base_url", c.OpenAI.BaseURL); err != nil {
			return err
		}
	}
	if c.Anthropic.BaseURL != "" {
		if err := infraconfig.ValidateURL("generation.anthropic.base_url", c.Anthropic.BaseURL); err != nil {
			return err
		}
	}
	return nil
}
