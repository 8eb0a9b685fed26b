package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/postcraft/infrastructure/circuitbreaker"
	infrahttp "github.com/jonesrussell/postcraft/infrastructure/http"
	infralogger "github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/config"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/identity"
)

// NewGenerationService builds the provider chain: Hugging Face first, then
// the configured fallback. reg may be nil.
func NewGenerationService(
	cfg config.GenerationConfig,
	reg prometheus.Registerer,
	version string,
	log infralogger.Logger,
) (*generation.Service, error) {
	client := infrahttp.NewClient(infrahttp.ClientConfig{
		Timeout:   cfg.Timeout,
		UserAgent: "postcraft/" + version,
	})

	var primary generation.Provider = generation.NewHuggingFaceProvider(client, cfg.HuggingFace.Endpoint, cfg.HuggingFace.APIKey)
	if cfg.Breaker.Enabled {
		primary = generation.WithBreaker(primary, newBreaker(cfg.Breaker, nil, "generation.huggingface", log))
	}

	fallback, err := newFallback(cfg, client)
	if err != nil {
		return nil, err
	}

	var opts []generation.Option
	if reg != nil {
		opts = append(opts, generation.WithMetrics(generation.NewMetrics(reg)))
	}

	svc, err := generation.NewService(log, []generation.Provider{primary, fallback}, opts...)
	if err != nil {
		return nil, fmt.Errorf("create generation service: %w", err)
	}

	log.Info("Generation chain ready",
		infralogger.Strings("providers", svc.Providers()),
		infralogger.Bool("primary_key_set", cfg.HuggingFace.APIKey != ""),
	)
	return svc, nil
}

func newFallback(cfg config.GenerationConfig, client *http.Client) (generation.Provider, error) {
	switch cfg.Fallback {
	case config.FallbackOpenAI:
		return generation.NewOpenAIProvider(client, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL), nil
	case config.FallbackAnthropic:
		return generation.NewAnthropicProvider(client, cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown fallback provider %q", cfg.Fallback)
	}
}

// NewIdentityClient returns a client in demo mode when Supabase is not
// configured.
func NewIdentityClient(cfg config.IdentityConfig, version string, log infralogger.Logger) *identity.Client {
	client := infrahttp.NewClient(infrahttp.ClientConfig{
		Timeout:   cfg.Timeout,
		UserAgent: "postcraft/" + version,
	})

	var breaker *circuitbreaker.Breaker
	if cfg.Breaker.Enabled {
		breaker = newBreaker(cfg.Breaker, identity.IsUpstreamFailure, "identity", log)
	}

	c := identity.NewClient(cfg.Config, client, breaker, log)
	if !c.Enabled() {
		log.Warn("Identity provider not configured, auth endpoints answer 503")
	}
	return c
}

func newBreaker(cfg config.BreakerConfig, isFailure func(error) bool, name string, log infralogger.Logger) *circuitbreaker.Breaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		OpenTimeout:      cfg.OpenTimeout,
		IsFailure:        isFailure,
		OnStateChange: func(from, to circuitbreaker.State) {
			log.Warn("Circuit breaker state changed",
				infralogger.String("breaker", name),
				infralogger.String("from", from.String()),
				infralogger.String("to", to.String()),
			)
		},
	})
}
