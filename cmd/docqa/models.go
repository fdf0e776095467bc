package main

import (
	"errors"
	"fmt"
)

// Run executes the models command.
func (c *ModelsCmd) Run(deps *Dependencies) error {
	if deps.Models == nil {
		return errors.New("backend cannot list models")
	}

	models, err := deps.Models.ListModels(deps.Ctx)
	if err != nil {
		return userError(err)
	}
	for _, name := range models {
		fmt.Fprintln(deps.Stdout, name)
	}
	return nil
}
