package mock

import (
	"context"

	"github.com/dgallion1/docqa/internal/llm"
)

var _ llm.Client = (*LLM)(nil)

// LLM is a mock implementation of llm.Client.
type LLM struct {
	AskFn     func(ctx context.Context, prompt string) (string, error)
	ModelName string
}

func (m *LLM) Ask(ctx context.Context, prompt string) (string, error) {
	return m.AskFn(ctx, prompt)
}

func (m *LLM) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

var _ llm.ModelLister = (*ModelLister)(nil)

// ModelLister is a mock implementation of llm.ModelLister.
type ModelLister struct {
	ListModelsFn func(ctx context.Context) ([]string, error)
}

func (m *ModelLister) ListModels(ctx context.Context) ([]string, error) {
	return m.ListModelsFn(ctx)
}
