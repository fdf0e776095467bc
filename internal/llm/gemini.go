package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

var _ Client = (*GeminiClient)(nil)
var _ ModelLister = (*GeminiClient)(nil)

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint. Empty means the public Gemini API.
	BaseURL string
}

// GeminiClient calls the hosted Gemini API through the genai SDK.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (c *GeminiClient) Model() string { return c.model }

// Ask sends prompt as a single user turn and returns the trimmed text of the
// first candidate.
func (c *GeminiClient) Ask(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		nil,
	)
	if err != nil {
		return "", c.classify(ctx, err)
	}
	if result == nil {
		return "", &Failure{Kind: KindUnknown, Backend: BackendGemini, Message: "gemini returned nil result"}
	}
	return strings.TrimSpace(result.Text()), nil
}

// ListModels returns the models that support generateContent, without the
// "models/" resource prefix.
func (c *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var names []string
	for m, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, c.classify(ctx, err)
		}
		if !slices.Contains(m.SupportedActions, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	return names, nil
}

func (c *GeminiClient) classify(ctx context.Context, err error) error {
	switch {
	case isTimeout(ctx, err):
		return &Failure{
			Kind:    KindTimeout,
			Backend: BackendGemini,
			Message: fmt.Sprintf("no response within %s", c.timeout),
			Err:     err,
		}
	case isOverloaded(err):
		return &Failure{Kind: KindTransientOverload, Backend: BackendGemini, Message: err.Error(), Err: err}
	}
	return &Failure{Kind: KindUnknown, Backend: BackendGemini, Message: err.Error(), Err: err}
}

// isOverloaded reports whether err is the service's "try again later"
// response: HTTP 503, status UNAVAILABLE, or an "overloaded" message.
func isOverloaded(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErrorOverloaded(apiErr) {
		return true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrorOverloaded(*apiErrPtr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "503") ||
		strings.Contains(msg, "UNAVAILABLE") ||
		strings.Contains(strings.ToLower(msg), "overloaded")
}

func apiErrorOverloaded(e genai.APIError) bool {
	return e.Code == http.StatusServiceUnavailable ||
		strings.EqualFold(e.Status, "UNAVAILABLE") ||
		strings.Contains(strings.ToLower(e.Message), "overloaded")
}
