package pipeline

import (
	"context"
	"iter"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docqa/internal/abbrev"
	"github.com/dgallion1/docqa/internal/prompt"
)

// BatchResult is the outcome for one document of an abbreviation batch.
// Exactly one of Output and Err is meaningful.
type BatchResult struct {
	Index    int
	Filename string
	Output   string
	Entries  []abbrev.Entry
	// Sorted reports whether Entries came back in abbreviation order.
	Sorted bool
	Err    error
}

// AbbreviationIndex yields one result per document, in input order. Items
// are processed only as they are pulled, and ranging over the sequence again
// runs the whole batch again. A failing item never stops the batch.
func (o *Orchestrator) AbbreviationIndex(ctx context.Context, docs []Document) iter.Seq[BatchResult] {
	return func(yield func(BatchResult) bool) {
		for i, doc := range docs {
			if !yield(o.indexOne(ctx, i, doc)) {
				return
			}
		}
	}
}

// AbbreviationIndexAll runs the whole batch and returns the results in input
// order. With BatchConcurrency above one, items run in parallel.
func (o *Orchestrator) AbbreviationIndexAll(ctx context.Context, docs []Document) ([]BatchResult, error) {
	if len(docs) == 0 {
		return nil, invalid("Please upload at least one article.")
	}
	if o.opts.BatchConcurrency <= 1 {
		return slices.Collect(o.AbbreviationIndex(ctx, docs)), nil
	}

	results := make([]BatchResult, len(docs))
	var g errgroup.Group
	g.SetLimit(o.opts.BatchConcurrency)
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = o.indexOne(ctx, i, doc)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (o *Orchestrator) indexOne(ctx context.Context, i int, doc Document) BatchResult {
	log := o.log.With("filename", doc.Filename, "item", i)
	res := BatchResult{Index: i, Filename: doc.Filename}

	text, err := o.extractor.Extract(doc.Data, doc.Filename)
	if err != nil {
		log.Warn("extract failed", "kind", KindOf(err), "error", err)
		res.Err = err
		return res
	}

	p := prompt.Build(prompt.TaskAbbreviationIndex, text, "", o.opts.AbbreviationBudget)
	out, err := o.llm.Ask(ctx, p)
	if err != nil {
		log.Warn("abbreviation index failed", "kind", KindOf(err), "error", err)
		res.Err = err
		return res
	}

	res.Output = out
	res.Entries = abbrev.Parse(out)
	res.Sorted = abbrev.IsSorted(res.Entries)
	if !res.Sorted {
		log.Info("model returned unsorted index", "entries", len(res.Entries))
	}
	return res
}
