package generation

import (
	"context"
	"errors"
)

// Confidence scores are fixed per provider; they are not model output.
const (
	HuggingFaceConfidence = 0.85
	OpenAIConfidence      = 0.92
	AnthropicConfidence   = 0.92
)

// Model names reported in Result.ModelUsed.
const (
	ModelHuggingFace = "huggingface"
	ModelOpenAI      = "openai"
	ModelAnthropic   = "anthropic"
)

// Temperature is sent to every provider.
const Temperature = 0.7

// SystemPrompt is the system message for chat-style providers.
const SystemPrompt = "You are a creative social media content writer."

// Completion is one provider's answer.
type Completion struct {
	Text       string
	Model      string
	Confidence float64
}

// Provider turns a prompt into text. Implementations make exactly one
// upstream call per Generate and never retry.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxLength int) (Completion, error)
}

// ErrAllProvidersFailed wraps every provider error once the chain is
// exhausted.
var ErrAllProvidersFailed = errors.New("all generation providers failed")

// ErrNoProviders is returned by NewService with an empty chain.
var ErrNoProviders = errors.New("no generation providers configured")
