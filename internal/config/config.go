package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted in LLM_BACKEND.
const (
	BackendLocal  = "local"
	BackendHosted = "hosted"
)

// Timeout bounds for LLM calls.
const (
	MinLLMTimeout = 1 * time.Second
	MaxLLMTimeout = 10 * time.Minute
)

type Config struct {
	Port     string
	LogLevel slog.Level

	// Backend selection: "local" (Ollama) or "hosted" (Gemini).
	LLMBackend string
	LLMTimeout time.Duration

	// Local backend
	OllamaURL   string
	OllamaModel string

	// Hosted backend
	GeminiAPIKey string
	GeminiModel  string

	// Character budgets
	QACharBudget     int
	AbbrevCharBudget int
	PreviewChars     int

	// Upload limits
	MaxUploadBytes int64

	// Batch
	BatchConcurrency int

	// Rolling window for /api/stats/llm.
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		LLMBackend: strings.ToLower(envOr("LLM_BACKEND", BackendLocal)),
		LLMTimeout: envDuration("LLM_TIMEOUT", 120*time.Second),

		OllamaURL:   envOr("OLLAMA_URL", "http://localhost:11434/api/generate"),
		OllamaModel: envOr("OLLAMA_MODEL", "llama3.2:latest"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		QACharBudget:     envInt("QA_CHAR_BUDGET", 8000),
		AbbrevCharBudget: envInt("ABBREV_CHAR_BUDGET", 10000),
		PreviewChars:     envInt("PREVIEW_CHARS", 2000),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		BatchConcurrency: envInt("BATCH_CONCURRENCY", 1),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}
	if cfg.QACharBudget <= 0 {
		cfg.QACharBudget = 8000
	}
	if cfg.AbbrevCharBudget <= 0 {
		cfg.AbbrevCharBudget = 10000
	}
	if cfg.PreviewChars <= 0 {
		cfg.PreviewChars = 2000
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.LLMBackend {
	case BackendLocal:
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for the local backend")
		}
	case BackendHosted:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the hosted backend")
		}
	default:
		return fmt.Errorf("LLM_BACKEND must be %q or %q, got %q", BackendLocal, BackendHosted, c.LLMBackend)
	}
	if c.LLMTimeout < MinLLMTimeout || c.LLMTimeout > MaxLLMTimeout {
		return fmt.Errorf("LLM_TIMEOUT must be between %s and %s, got %s", MinLLMTimeout, MaxLLMTimeout, c.LLMTimeout)
	}
	return nil
}

// Model returns the model name of the selected backend.
func (c Config) Model() string {
	if c.LLMBackend == BackendHosted {
		return c.GeminiModel
	}
	return c.OllamaModel
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}
