package main

import (
	"encoding/json"
	"fmt"

	"github.com/dgallion1/docqa/internal/abbrev"
	"github.com/dgallion1/docqa/internal/pipeline"
)

type abbrevJSON struct {
	Filename string         `json:"filename"`
	Entries  []abbrev.Entry `json:"entries,omitempty"`
	Sorted   bool           `json:"sorted"`
	Output   string         `json:"output,omitempty"`
	Error    string         `json:"error,omitempty"`
	Kind     pipeline.Kind  `json:"kind,omitempty"`
}

// Run executes the abbrev command. Each document is printed as soon as it
// is indexed; a failed document does not stop the rest.
func (c *AbbrevCmd) Run(deps *Dependencies) error {
	docs := make([]pipeline.Document, 0, len(c.Files))
	for _, path := range c.Files {
		doc, err := readDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	enc := json.NewEncoder(deps.Stdout)
	failed := 0
	for res := range deps.Orchestrator.AbbreviationIndex(deps.Ctx, docs) {
		if res.Err != nil {
			failed++
		}
		if c.JSON {
			if err := enc.Encode(toJSON(res)); err != nil {
				return err
			}
			continue
		}
		printResult(deps, res)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(docs))
	}
	return nil
}

func printResult(deps *Dependencies, res pipeline.BatchResult) {
	fmt.Fprintf(deps.Stdout, "== %s ==\n", res.Filename)
	if res.Err != nil {
		fmt.Fprintf(deps.Stdout, "error: %s\n\n", pipeline.UserMessage(res.Err))
		return
	}
	if len(res.Entries) == 0 {
		// Nothing parsed; show what the model said.
		fmt.Fprintln(deps.Stdout, res.Output)
	}
	for _, e := range res.Entries {
		fmt.Fprintln(deps.Stdout, e)
	}
	if !res.Sorted {
		fmt.Fprintln(deps.Stdout, "(not in alphabetical order)")
	}
	fmt.Fprintln(deps.Stdout)
}

func toJSON(res pipeline.BatchResult) abbrevJSON {
	out := abbrevJSON{Filename: res.Filename}
	if res.Err != nil {
		out.Error = pipeline.UserMessage(res.Err)
		out.Kind = pipeline.KindOf(res.Err)
		return out
	}
	out.Entries = res.Entries
	out.Sorted = res.Sorted
	out.Output = res.Output
	return out
}
