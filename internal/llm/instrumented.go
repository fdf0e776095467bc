package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var _ Client = (*Instrumented)(nil)
var _ ModelLister = (*Instrumented)(nil)

// Instrumented wraps a Client, recording every call in stats and logging it.
type Instrumented struct {
	next  Client
	stats *LLMStats
	log   *slog.Logger
}

func WithStats(next Client, stats *LLMStats, log *slog.Logger) *Instrumented {
	if stats == nil {
		stats = NewLLMStats(time.Hour)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Instrumented{next: next, stats: stats, log: log}
}

func (c *Instrumented) Model() string { return c.next.Model() }

// Stats returns the latency tracker fed by this client.
func (c *Instrumented) Stats() *LLMStats { return c.stats }

func (c *Instrumented) Ask(ctx context.Context, prompt string) (string, error) {
	ctx, reqID := ensureRequestID(ctx)
	start := time.Now()

	answer, err := c.next.Ask(ctx, prompt)
	elapsed := time.Since(start)
	kind := KindOf(err)
	c.stats.Record(elapsed, kind)

	if err != nil {
		c.log.Warn("llm call",
			"req_id", reqID,
			"backend", backendOf(err),
			"model", c.next.Model(),
			"duration_ms", elapsed.Milliseconds(),
			"kind", kind,
			"error", err,
		)
		return "", err
	}
	c.log.Info("llm call",
		"req_id", reqID,
		"model", c.next.Model(),
		"duration_ms", elapsed.Milliseconds(),
		"prompt_chars", len(prompt),
		"answer_chars", len(answer),
	)
	return answer, nil
}

// ListModels delegates to the wrapped client when it can list models.
func (c *Instrumented) ListModels(ctx context.Context) ([]string, error) {
	lister, ok := c.next.(ModelLister)
	if !ok {
		return nil, errors.New("backend cannot list models")
	}
	return lister.ListModels(ctx)
}

func backendOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Backend
	}
	return ""
}
