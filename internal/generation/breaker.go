package generation

import (
	"context"

	"github.com/jonesrussell/postcraft/infrastructure/circuitbreaker"
)

// breakerProvider fails fast while its circuit is open, which sends the
// chain straight to the next provider.
type breakerProvider struct {
	next    Provider
	breaker *circuitbreaker.Breaker
}

// WithBreaker wraps p in b.
func WithBreaker(p Provider, b *circuitbreaker.Breaker) Provider {
	return &breakerProvider{next: p, breaker: b}
}

func (p *breakerProvider) Name() string { return p.next.Name() }

func (p *breakerProvider) Generate(ctx context.Context, prompt string, maxLength int) (Completion, error) {
	var out Completion
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		out, err = p.next.Generate(ctx, prompt, maxLength)
		return err
	})
	return out, err
}
