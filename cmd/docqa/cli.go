package main

import (
	"context"
	"io"

	"github.com/dgallion1/docqa/internal/llm"
	"github.com/dgallion1/docqa/internal/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	Orchestrator *pipeline.Orchestrator
	Models       llm.ModelLister
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Backend string `help:"Model backend, local or hosted (overrides LLM_BACKEND)"`
	Model   string `help:"Model name for the selected backend"`

	Ask     AskCmd     `cmd:"" help:"Ask a question, optionally about a document"`
	Abbrev  AbbrevCmd  `cmd:"" help:"Build an abbreviation index for each document"`
	Preview PreviewCmd `cmd:"" help:"Print the start of a document's extracted text"`
	Models  ModelsCmd  `cmd:"" help:"List the models the backend can serve"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask"`
	File     string `short:"f" type:"existingfile" help:"Document to answer from (.txt, .pdf, .doc, .docx, .html, .htm)"`
	Budget   int    `short:"b" help:"Document character budget (default QA_CHAR_BUDGET)"`
	JSON     bool   `help:"Print the result as JSON"`
}

// AbbrevCmd is the "abbrev" subcommand.
type AbbrevCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Documents to index"`
	JSON  bool     `help:"Print one JSON object per document"`
}

// ModelsCmd is the "models" subcommand.
type ModelsCmd struct{}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	File  string `arg:"" type:"existingfile" help:"Document to extract"`
	Chars int    `short:"n" help:"Number of characters to print (default PREVIEW_CHARS)"`
}
