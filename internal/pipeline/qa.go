package pipeline

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docqa/internal/prompt"
)

// QARequest is one question, optionally about an uploaded document.
type QARequest struct {
	Question string
	Document *Document
	// Budget caps the document context in characters. Zero or negative uses
	// the configured QA budget.
	Budget int
}

type QAResult struct {
	Answer          string `json:"answer"`
	Filename        string `json:"filename,omitempty"`
	Preview         string `json:"preview,omitempty"`
	PromptChars     int    `json:"prompt_chars"`
	EstimatedTokens int    `json:"estimated_tokens"`
	Model           string `json:"model"`
}

// Answer runs the question answering flow. A blank question is rejected
// before the document is read; any other question is embedded as given. A
// document that cannot be extracted is reported without calling the model.
// Without a document the model is asked with an empty context.
func (o *Orchestrator) Answer(ctx context.Context, req QARequest) (*QAResult, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, invalid("Please enter a question.")
	}

	log := o.log
	var text, filename string
	if req.Document != nil {
		filename = req.Document.Filename
		log = log.With("filename", filename)

		var err error
		text, err = o.extractor.Extract(req.Document.Data, filename)
		if err != nil {
			log.Warn("extract failed", "kind", KindOf(err), "error", err)
			return nil, err
		}
		log.Debug("extracted document", "chars", utf8.RuneCountInString(text))
	}

	budget := req.Budget
	if budget <= 0 {
		budget = o.opts.QABudget
	}
	p := prompt.Build(prompt.TaskQA, text, req.Question, budget)

	answer, err := o.llm.Ask(ctx, p)
	if err != nil {
		log.Warn("answer failed", "kind", KindOf(err), "error", err)
		return nil, err
	}

	return &QAResult{
		Answer:          answer,
		Filename:        filename,
		Preview:         prompt.Truncate(text, o.opts.PreviewChars),
		PromptChars:     utf8.RuneCountInString(p),
		EstimatedTokens: prompt.EstimateTokens(p),
		Model:           o.llm.Model(),
	}, nil
}

// Preview returns the first limit characters of the document's extracted
// text. A limit of zero or less uses the configured preview length.
func (o *Orchestrator) Preview(doc Document, limit int) (string, error) {
	if limit <= 0 {
		limit = o.opts.PreviewChars
	}
	text, err := o.extractor.Extract(doc.Data, doc.Filename)
	if err != nil {
		return "", err
	}
	return prompt.Truncate(text, limit), nil
}
