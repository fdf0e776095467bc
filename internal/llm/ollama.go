package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultOllamaURL is the generate endpoint of a stock Ollama install.
const DefaultOllamaURL = "http://localhost:11434/api/generate"

var _ Client = (*OllamaClient)(nil)
var _ ModelLister = (*OllamaClient)(nil)

type OllamaConfig struct {
	// URL is the full generate endpoint, not the server root.
	URL     string
	Model   string
	Timeout time.Duration
}

// OllamaClient calls a local Ollama server's non-streaming generate API.
type OllamaClient struct {
	url        string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

func NewOllamaClient(cfg OllamaConfig, log *slog.Logger) *OllamaClient {
	if cfg.URL == "" {
		cfg.URL = DefaultOllamaURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &OllamaClient{
		url:        cfg.URL,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		log:        log,
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

func (c *OllamaClient) Model() string { return c.model }

// Ask sends prompt and returns the trimmed response text.
func (c *OllamaClient) Ask(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(ollamaRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", c.fail(KindUnknown, fmt.Errorf("marshal request: %w", err))
	}

	ctx, reqID := ensureRequestID(ctx)
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", c.fail(KindUnknown, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debug("llm.http.request", "req_id", reqID, "url", c.url, "content_length", len(body))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("llm.http.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", c.classify(ctx, fmt.Errorf("ollama api: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", c.classify(ctx, fmt.Errorf("read response: %w", err))
	}

	c.log.Debug("llm.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return "", c.fail(KindUnknown, fmt.Errorf("ollama api status %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(respBody)), 200)))
	}

	var apiResp ollamaResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", c.fail(KindUnknown, fmt.Errorf("decode response: %w", err))
	}
	if apiResp.Error != "" {
		return "", c.fail(KindUnknown, fmt.Errorf("ollama error: %s", apiResp.Error))
	}

	return strings.TrimSpace(apiResp.Response), nil
}

type ollamaTags struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the models installed on the Ollama server.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tagsURL, err := ollamaTagsURL(c.url)
	if err != nil {
		return nil, c.fail(KindUnknown, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
	if err != nil {
		return nil, c.fail(KindUnknown, fmt.Errorf("create request: %w", err))
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classify(ctx, fmt.Errorf("ollama api: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, c.fail(KindUnknown, fmt.Errorf("ollama api status %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(raw)), 200)))
	}

	var tags ollamaTags
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, c.fail(KindUnknown, fmt.Errorf("decode tags: %w", err))
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// ollamaTagsURL maps the configured generate endpoint to /api/tags on the
// same server.
func ollamaTagsURL(generateURL string) (string, error) {
	u, err := url.Parse(generateURL)
	if err != nil {
		return "", fmt.Errorf("parse ollama url: %w", err)
	}
	root := strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/api/generate")
	u.Path = root + "/api/tags"
	u.RawQuery = ""
	return u.String(), nil
}

func (c *OllamaClient) classify(ctx context.Context, err error) error {
	if isTimeout(ctx, err) {
		return &Failure{
			Kind:    KindTimeout,
			Backend: BackendOllama,
			Message: fmt.Sprintf("no response within %s", c.timeout),
			Err:     err,
		}
	}
	return c.fail(KindUnknown, err)
}

func (c *OllamaClient) fail(kind Kind, err error) error {
	return &Failure{Kind: kind, Backend: BackendOllama, Message: err.Error(), Err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
