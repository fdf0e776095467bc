package pipeline_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgallion1/docqa/internal/abbrev"
	"github.com/dgallion1/docqa/internal/llm"
	"github.com/dgallion1/docqa/internal/mock"
	"github.com/dgallion1/docqa/internal/parser"
	"github.com/dgallion1/docqa/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoLLM answers with an index line naming the article it was given.
func echoLLM(calls *atomic.Int32) *mock.LLM {
	return &mock.LLM{AskFn: func(_ context.Context, p string) (string, error) {
		calls.Add(1)
		switch {
		case strings.Contains(p, "first article"):
			return "FA: first article", nil
		case strings.Contains(p, "third article"):
			return "TA: third article", nil
		}
		return "XX: other", nil
	}}
}

func threeDocs() []pipeline.Document {
	return []pipeline.Document{
		{Filename: "a.txt", Data: []byte("The first article (FA).")},
		{Filename: "b.xyz", Data: []byte("ignored")},
		{Filename: "c.html", Data: []byte("<p>The third article (TA).</p>")},
	}
}

func TestAbbreviationIndex_IsolatesFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	o := pipeline.NewOrchestrator(pipeline.Options{}, parser.Extractor{}, echoLLM(&calls), nil)

	var results []pipeline.BatchResult
	for r := range o.AbbreviationIndex(context.Background(), threeDocs()) {
		results = append(results, r)
	}

	require.Len(t, results, 3)
	assert.Equal(t, []string{"a.txt", "b.xyz", "c.html"}, []string{results[0].Filename, results[1].Filename, results[2].Filename})

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "FA: first article", results[0].Output)
	assert.Equal(t, []abbrev.Entry{{Abbreviation: "FA", Term: "first article"}}, results[0].Entries)
	assert.True(t, results[0].Sorted)

	assert.ErrorIs(t, results[1].Err, parser.ErrUnsupportedFormat)
	assert.Empty(t, results[1].Output)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, "TA: third article", results[2].Output)

	assert.Equal(t, int32(2), calls.Load())
	for i, r := range results {
		assert.Equal(t, i, r.Index)
	}
}

func TestAbbreviationIndex_IsLazy(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	o := pipeline.NewOrchestrator(pipeline.Options{}, parser.Extractor{}, echoLLM(&calls), nil)

	seq := o.AbbreviationIndex(context.Background(), threeDocs())
	assert.Equal(t, int32(0), calls.Load(), "nothing runs until the sequence is consumed")

	for r := range seq {
		assert.Equal(t, "a.txt", r.Filename)
		break
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestAbbreviationIndex_Restartable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	o := pipeline.NewOrchestrator(pipeline.Options{}, parser.Extractor{}, echoLLM(&calls), nil)
	seq := o.AbbreviationIndex(context.Background(), threeDocs())

	collect := func() []string {
		var outs []string
		for r := range seq {
			outs = append(outs, r.Output)
		}
		return outs
	}

	first := collect()
	second := collect()

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
	assert.Equal(t, int32(4), calls.Load())
}

func TestAbbreviationIndex_ModelFailureIsPerItem(t *testing.T) {
	t.Parallel()

	client := &mock.LLM{AskFn: func(_ context.Context, p string) (string, error) {
		if strings.Contains(p, "first article") {
			return "", &llm.Failure{Kind: llm.KindTransientOverload, Backend: llm.BackendGemini, Message: "503"}
		}
		return "TA: third article", nil
	}}
	o := pipeline.NewOrchestrator(pipeline.Options{}, parser.Extractor{}, client, nil)

	results, err := o.AbbreviationIndexAll(context.Background(), threeDocs())

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, pipeline.KindTransientOverload, pipeline.KindOf(results[0].Err))
	assert.Equal(t, pipeline.KindUnsupportedFormat, pipeline.KindOf(results[1].Err))
	assert.NoError(t, results[2].Err)
}

func TestAbbreviationIndex_FlagsUnsortedOutput(t *testing.T) {
	t.Parallel()

	client := &mock.LLM{AskFn: func(context.Context, string) (string, error) {
		return "WDC: weighted degree centrality\nDC: degree centrality", nil
	}}
	o := pipeline.NewOrchestrator(pipeline.Options{}, parser.Extractor{}, client, nil)

	results, err := o.AbbreviationIndexAll(context.Background(), []pipeline.Document{{Filename: "a.txt"}})

	require.NoError(t, err)
	assert.Len(t, results[0].Entries, 2)
	assert.False(t, results[0].Sorted)
}

func TestAbbreviationIndex_UsesAbbreviationBudget(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	client := &mock.LLM{AskFn: func(_ context.Context, p string) (string, error) {
		gotPrompt = p
		return "", nil
	}}
	extractor := &mock.Extractor{ExtractFn: func([]byte, string) (string, error) {
		return strings.Repeat("b", 20000), nil
	}}
	o := pipeline.NewOrchestrator(pipeline.Options{}, extractor, client, nil)

	results, err := o.AbbreviationIndexAll(context.Background(), []pipeline.Document{{Filename: "a.txt"}})

	require.NoError(t, err)
	assert.NoError(t, results[0].Err)
	assert.Contains(t, gotPrompt, strings.Repeat("b", 10000))
	assert.NotContains(t, gotPrompt, strings.Repeat("b", 10001))
	assert.Contains(t, gotPrompt, "Article text:")
}

func TestAbbreviationIndexAll_EmptyBatch(t *testing.T) {
	t.Parallel()

	o := pipeline.NewOrchestrator(pipeline.Options{}, parser.Extractor{}, &mock.LLM{}, nil)

	_, err := o.AbbreviationIndexAll(context.Background(), nil)

	require.ErrorIs(t, err, pipeline.ErrValidation)
	assert.Equal(t, "Please upload at least one article.", pipeline.UserMessage(err))
}

func TestAbbreviationIndexAll_ParallelKeepsOrder(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	client := &mock.LLM{AskFn: func(_ context.Context, p string) (string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		switch {
		case strings.Contains(p, "doc-0"):
			return "A: zero", nil
		case strings.Contains(p, "doc-1"):
			return "B: one", nil
		case strings.Contains(p, "doc-2"):
			return "C: two", nil
		}
		return "D: three", nil
	}}
	docs := []pipeline.Document{
		{Filename: "0.txt", Data: []byte("doc-0")},
		{Filename: "1.txt", Data: []byte("doc-1")},
		{Filename: "2.txt", Data: []byte("doc-2")},
		{Filename: "3.txt", Data: []byte("doc-3")},
	}
	o := pipeline.NewOrchestrator(pipeline.Options{BatchConcurrency: 2}, parser.Extractor{}, client, nil)

	results, err := o.AbbreviationIndexAll(context.Background(), docs)

	require.NoError(t, err)
	require.Len(t, results, 4)
	want := []string{"A: zero", "B: one", "C: two", "D: three"}
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, docs[i].Filename, r.Filename)
		assert.Equal(t, want[i], r.Output)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
