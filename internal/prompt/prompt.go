// Package prompt builds the text sent to the language model from extracted
// document text. It performs no I/O.
package prompt

import (
	"fmt"
	"strings"
)

// Task selects the prompt template.
type Task int

const (
	TaskQA Task = iota
	TaskAbbreviationIndex
)

func (t Task) String() string {
	switch t {
	case TaskQA:
		return "qa"
	case TaskAbbreviationIndex:
		return "abbreviation_index"
	}
	return fmt.Sprintf("task(%d)", int(t))
}

// Default document budgets, in characters.
const (
	DefaultQABudget           = 8000
	DefaultAbbreviationBudget = 10000
)

// Delimiter separates document context from the rest of the prompt.
const Delimiter = "-----------------"

const qaInstructions = `You are a helpful assistant for question answering with documents.

You are given a user question and OPTIONAL document text.
Use the document only as supporting context when possible; you do not need it to answer.
If the document does not contain enough information, say you are not sure rather than guessing.`

const abbreviationInstructions = `You are an assistant that extracts abbreviations from scientific articles.

You are given the text of a single article.
Your task is to build an abbreviation index.

Instructions:
- Find all abbreviations defined in forms like "full term (ABBR)" or "ABBR (full term)".
- Only include abbreviations that actually appear in the article.
- For each abbreviation, output exactly one line with the format:
  ABBR: full term
- Sort the output alphabetically by abbreviation.
- If you are unsure about an item, skip it instead of guessing.
- Do NOT add any explanations or other text beyond the "ABBR: full term" lines.`

// Build renders the prompt for task. The document text is truncated to budget
// characters before it is embedded. question is ignored for
// TaskAbbreviationIndex.
func Build(task Task, text, question string, budget int) string {
	context := Truncate(text, budget)

	var sb strings.Builder
	switch task {
	case TaskAbbreviationIndex:
		sb.WriteString(abbreviationInstructions)
		sb.WriteString("\n\nArticle text:\n")
		sb.WriteString(Delimiter + "\n")
		sb.WriteString(context)
		sb.WriteString("\n" + Delimiter + "\n\n")
		sb.WriteString("Now output the abbreviation index in the requested format:\n")
	default:
		sb.WriteString(qaInstructions)
		sb.WriteString("\n\nDocument context:\n")
		sb.WriteString(Delimiter + "\n")
		sb.WriteString(context)
		sb.WriteString("\n" + Delimiter + "\n")
		sb.WriteString("User question: ")
		sb.WriteString(question)
		sb.WriteString("\n\nAnswer clearly and concisely:\n")
	}
	return sb.String()
}

// Truncate returns the first budget characters of text. Characters are
// Unicode code points. A negative budget is treated as zero.
func Truncate(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	n := 0
	for i := range text {
		if n == budget {
			return text[:i]
		}
		n++
	}
	return text
}
