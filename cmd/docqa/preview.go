package main

import "fmt"

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	doc, err := readDocument(c.File)
	if err != nil {
		return err
	}

	text, err := deps.Orchestrator.Preview(doc, c.Chars)
	if err != nil {
		return userError(err)
	}
	fmt.Fprintln(deps.Stdout, text)
	return nil
}
