package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/docqa/internal/pipeline"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	req := pipeline.QARequest{Question: c.Question, Budget: c.Budget}
	if c.File != "" {
		doc, err := readDocument(c.File)
		if err != nil {
			return err
		}
		req.Document = &doc
	}

	res, err := deps.Orchestrator.Answer(deps.Ctx, req)
	if err != nil {
		return userError(err)
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintln(deps.Stdout, res.Answer)
	return nil
}

func readDocument(path string) (pipeline.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.Document{Filename: filepath.Base(path), Data: data}, nil
}
