package mock

import "github.com/dgallion1/docqa/internal/pipeline"

var _ pipeline.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pipeline.Extractor.
type Extractor struct {
	ExtractFn func(data []byte, filename string) (string, error)
}

func (e *Extractor) Extract(data []byte, filename string) (string, error) {
	return e.ExtractFn(data, filename)
}
