package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	infraerrors "github.com/jonesrussell/postcraft/infrastructure/errors"
)

// DefaultHuggingFaceURL is the hosted inference endpoint for gpt2.
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/gpt2"

const (
	huggingFaceTopP = 0.9
	maxResponseBody = 4 << 20
)

// HuggingFaceProvider calls a hosted text-generation model.
type HuggingFaceProvider struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// NewHuggingFaceProvider never fails: a missing key surfaces as an upstream
// 401 at call time.
func NewHuggingFaceProvider(client *http.Client, endpoint, apiKey string) *HuggingFaceProvider {
	if endpoint == "" {
		endpoint = DefaultHuggingFaceURL
	}
	return &HuggingFaceProvider{client: client, endpoint: endpoint, apiKey: apiKey}
}

func (p *HuggingFaceProvider) Name() string { return ModelHuggingFace }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string, maxLength int) (Completion, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxLength:   maxLength,
			Temperature: Temperature,
			TopP:        huggingFaceTopP,
		},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("encode huggingface request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("build huggingface request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("call huggingface: %w", err)
	}
	defer resp.Body.Close()

	if err = infraerrors.ParseHTTPError(resp); err != nil {
		return Completion{}, fmt.Errorf("huggingface: %w", err)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Completion{}, fmt.Errorf("read huggingface response: %w", err)
	}

	return Completion{
		Text:       extractGeneratedText(raw),
		Model:      ModelHuggingFace,
		Confidence: HuggingFaceConfidence,
	}, nil
}

// extractGeneratedText accepts [{"generated_text": ...}] or
// {"generated_text": ...}. Any other shape yields "".
func extractGeneratedText(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return ""
	}
	doc := gjson.ParseBytes(raw)
	switch {
	case doc.IsArray():
		return doc.Get("0.generated_text").String()
	case doc.IsObject():
		return doc.Get("generated_text").String()
	default:
		return ""
	}
}
