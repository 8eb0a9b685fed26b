package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultOpenAIModel = "gpt-3.5-turbo"

var errNoChoices = errors.New("openai returned no choices")

// OpenAIProvider calls the chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider disables SDK retries; the chain owns failure handling.
// baseURL may be empty.
func NewOpenAIProvider(client *http.Client, apiKey, model, baseURL string) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(client),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIProvider{client: openai.NewClient(opts...), model: model}
}

func (p *OpenAIProvider) Name() string { return ModelOpenAI }

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, maxLength int) (Completion, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(maxLength)),
		Temperature: openai.Float(Temperature),
	})
	if err != nil {
		return Completion{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errNoChoices
	}

	return Completion{
		Text:       resp.Choices[0].Message.Content,
		Model:      ModelOpenAI,
		Confidence: OpenAIConfidence,
	}, nil
}
