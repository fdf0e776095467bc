// Package llm sends prompts to a language model backend and classifies
// backend failures. Two backends exist: a local Ollama server and the hosted
// Gemini API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docqa/internal/config"
)

// Client sends one prompt and returns the model's answer text.
type Client interface {
	Ask(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ModelLister is implemented by backends that can enumerate their models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Backend names carried in Failure.Backend.
const (
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

// Kind classifies a backend failure.
type Kind string

const (
	KindTimeout           Kind = "timeout"
	KindTransientOverload Kind = "transient_overload"
	KindUnknown           Kind = "unknown"
)

// Failure is the error returned by every Client implementation.
type Failure struct {
	Kind    Kind
	Backend string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s %s: %s", f.Backend, f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// Advice is a short hint for the user, empty for unknown failures.
func (f *Failure) Advice() string {
	switch f.Kind {
	case KindTimeout:
		return "The model did not respond in time. Try again, or use a smaller document budget."
	case KindTransientOverload:
		return "The model is temporarily overloaded and returned 503 UNAVAILABLE. Please wait a bit and try again, or configure a different model."
	}
	return ""
}

// KindOf returns the failure kind of err. Errors that are not a *Failure are
// classified as unknown unless they carry a context deadline.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

// New builds the client for the backend selected in cfg. cfg must already be
// validated.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (Client, error) {
	switch cfg.LLMBackend {
	case config.BackendLocal:
		return NewOllamaClient(OllamaConfig{
			URL:     cfg.OllamaURL,
			Model:   cfg.OllamaModel,
			Timeout: cfg.LLMTimeout,
		}, log), nil
	case config.BackendHosted:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.LLMTimeout,
		})
	}
	return nil, fmt.Errorf("unknown llm backend %q", cfg.LLMBackend)
}
