package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/dgallion1/docqa/internal/config"
	"github.com/dgallion1/docqa/internal/llm"
	"github.com/dgallion1/docqa/internal/parser"
	"github.com/dgallion1/docqa/internal/pipeline"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Settings read from the environment. Set before calling Run().
	Config config.Config

	// Client replaces the configured backend when set.
	Client llm.Client

	// Extractor replaces the file parser when set.
	Extractor pipeline.Extractor
}

// NewMain returns a new instance of Main with settings from the environment.
func NewMain() *Main {
	return &Main{
		Config: config.Load(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	kp, err := kong.New(cli,
		kong.Name("docqa"),
		kong.Description("Ask questions about documents and build abbreviation indexes with a local or hosted model."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = kp.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docqa --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = kp.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := kp.Parse(args)
	if err != nil {
		return err
	}

	cfg := m.Config
	if cli.Backend != "" {
		cfg.LLMBackend = strings.ToLower(cli.Backend)
	}
	if cli.Model != "" {
		if cfg.LLMBackend == config.BackendHosted {
			cfg.GeminiModel = cli.Model
		} else {
			cfg.OllamaModel = cli.Model
		}
	}

	// Logs go to stderr so stdout carries only results.
	log := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// Extraction alone needs no model.
	client := m.Client
	if client == nil && !strings.HasPrefix(kongCtx.Command(), "preview") {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(stderr, "Hint: set LLM_BACKEND=local with Ollama running, or LLM_BACKEND=hosted with GEMINI_API_KEY")
			return fmt.Errorf("invalid configuration: %w", err)
		}
		client, err = llm.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to create %s client: %w", cfg.LLMBackend, err)
		}
	}
	if lister, ok := client.(llm.ModelLister); ok {
		deps.Models = lister
	}

	extractor := m.Extractor
	if extractor == nil {
		extractor = parser.Extractor{}
	}
	deps.Orchestrator = pipeline.NewOrchestrator(pipeline.OptionsFrom(cfg), extractor, client, log)

	return kongCtx.Run(deps)
}
