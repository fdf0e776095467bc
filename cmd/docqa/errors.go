package main

import "github.com/dgallion1/docqa/internal/pipeline"

// failure carries the user-facing text of a pipeline error while keeping
// the cause for errors.Is and errors.As.
type failure struct {
	err error
}

func (f *failure) Error() string { return pipeline.UserMessage(f.err) }
func (f *failure) Unwrap() error { return f.err }

func userError(err error) error {
	return &failure{err: err}
}
