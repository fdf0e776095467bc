package pipeline

import (
	"log/slog"

	"github.com/dgallion1/docqa/internal/config"
	"github.com/dgallion1/docqa/internal/llm"
	"github.com/dgallion1/docqa/internal/prompt"
)

// Document is one uploaded file. The declared format is its filename suffix.
type Document struct {
	Filename string
	Data     []byte
}

// Extractor turns an uploaded file into plain text.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
}

// Options holds the budgets and limits the orchestrator applies. Zero values
// fall back to the defaults.
type Options struct {
	QABudget           int
	AbbreviationBudget int
	PreviewChars       int
	BatchConcurrency   int
}

// DefaultPreviewChars is the length of the document preview shown with an
// answer.
const DefaultPreviewChars = 2000

// OptionsFrom copies the relevant settings out of cfg.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		QABudget:           cfg.QACharBudget,
		AbbreviationBudget: cfg.AbbrevCharBudget,
		PreviewChars:       cfg.PreviewChars,
		BatchConcurrency:   cfg.BatchConcurrency,
	}
}

// Orchestrator runs the question answering and abbreviation index flows.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	extractor Extractor
	llm       llm.Client
	log       *slog.Logger
	opts      Options
}

func NewOrchestrator(opts Options, extractor Extractor, client llm.Client, log *slog.Logger) *Orchestrator {
	if opts.QABudget <= 0 {
		opts.QABudget = prompt.DefaultQABudget
	}
	if opts.AbbreviationBudget <= 0 {
		opts.AbbreviationBudget = prompt.DefaultAbbreviationBudget
	}
	if opts.PreviewChars <= 0 {
		opts.PreviewChars = DefaultPreviewChars
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		extractor: extractor,
		llm:       client,
		log:       log,
		opts:      opts,
	}
}

// Model returns the model name of the configured backend.
func (o *Orchestrator) Model() string {
	return o.llm.Model()
}

// Options returns the effective settings.
func (o *Orchestrator) Options() Options {
	return o.opts
}
