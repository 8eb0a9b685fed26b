package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
)

const tracerName = "github.com/jonesrussell/postcraft/internal/generation"

// Service tries its providers in order and returns the first success.
// The first provider is the primary; every later one is a fallback and is
// only called after the one before it has failed.
type Service struct {
	providers []Provider
	log       logger.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func NewService(log logger.Logger, providers []Provider, opts ...Option) (*Service, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	s := &Service{
		providers: providers,
		log:       log,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Providers returns the chain's provider names in order.
func (s *Service) Providers() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name()
	}
	return names
}

// Generate builds the prompt, walks the chain and, when asked, attaches
// hashtags derived from the original topic. Upstream response shapes that
// cannot be read produce empty content, not an error.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	ctx, span := s.tracer.Start(ctx, "generation.Generate",
		trace.WithAttributes(attribute.String("platform", string(req.Platform))))
	defer span.End()

	prompt := BuildPrompt(req)
	maxLength := req.EffectiveMaxLength()

	var errs []error
	for i, p := range s.providers {
		role := RolePrimary
		if i > 0 {
			role = RoleFallback
		}

		completion, err := s.attempt(ctx, p, role, prompt, maxLength)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			if ctx.Err() != nil {
				break
			}
			if i < len(s.providers)-1 {
				s.log.Warn("Generation provider failed, falling back",
					logger.Provider(p.Name()),
					logger.String("role", string(role)),
					logger.String("next_provider", s.providers[i+1].Name()),
					logger.Error(err),
				)
			}
			continue
		}

		result := Result{
			Content:         completion.Text,
			ConfidenceScore: completion.Confidence,
			Provider:        role,
			ModelUsed:       completion.Model,
		}
		if req.IncludeHashtags {
			result.Hashtags = DeriveHashtags(req.Topic)
		}
		span.SetAttributes(attribute.String("provider.role", string(role)))
		return result, nil
	}

	// A cancelled or expired request is not an exhausted chain.
	if ctxErr := ctx.Err(); ctxErr != nil {
		err := fmt.Errorf("generation stopped: %w", errors.Join(append([]error{ctxErr}, errs...)...))
		span.RecordError(err)
		span.SetStatus(codes.Error, "request context done")
		return Result{}, err
	}

	s.metrics.exhausted()
	err := fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
	span.RecordError(err)
	span.SetStatus(codes.Error, "all providers failed")
	return Result{}, err
}

func (s *Service) attempt(ctx context.Context, p Provider, role Role, prompt string, maxLength int) (Completion, error) {
	ctx, span := s.tracer.Start(ctx, "generation.provider",
		trace.WithAttributes(
			attribute.String("provider.name", p.Name()),
			attribute.String("provider.role", string(role)),
			attribute.Int("max_length", maxLength),
		))
	defer span.End()

	start := time.Now()
	completion, err := p.Generate(ctx, prompt, maxLength)
	s.metrics.observe(p.Name(), role, err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failed")
	}
	return completion, err
}
