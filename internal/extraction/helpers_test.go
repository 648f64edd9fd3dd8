package extraction

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/insightloop/contractmeta/config"
	"github.com/insightloop/contractmeta/internal/retrieval"
)

// scriptedProvider routes completions through a test-supplied function.
type scriptedProvider struct {
	respond func(systemPrompt, userPrompt, model string, temperature float64) (string, error)
}

func (s *scriptedProvider) Complete(ctx context.Context, systemPrompt, userPrompt, model string, temperature float64) (string, error) {
	text, _, _, err := s.CompleteWithTokens(ctx, systemPrompt, userPrompt, model, temperature)
	return text, err
}

func (s *scriptedProvider) CompleteWithTokens(ctx context.Context, systemPrompt, userPrompt, model string, temperature float64) (string, int64, int64, error) {
	text, err := s.respond(systemPrompt, userPrompt, model, temperature)
	if err != nil {
		return "", 0, 0, err
	}
	return text, 10, 5, nil
}

func (s *scriptedProvider) CalculateCost(inputTokens, outputTokens int64, model string) float64 {
	return 0.001
}

// fakeRetriever serves canned passages and records the filters used.
type fakeRetriever struct {
	mu      sync.Mutex
	text    string
	empty   bool
	err     error
	panicOn string
	filters map[string]retrieval.Filter
}

func (f *fakeRetriever) Search(ctx context.Context, filter retrieval.Filter, topK int, query string) ([]retrieval.Match, error) {
	f.mu.Lock()
	if f.filters == nil {
		f.filters = make(map[string]retrieval.Filter)
	}
	f.filters[query] = filter
	f.mu.Unlock()

	if f.panicOn != "" && strings.Contains(query, f.panicOn) {
		panic("retriever exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return nil, nil
	}
	text := f.text
	if text == "" {
		text = "Some contract passage."
	}
	return []retrieval.Match{{ID: "m1", Score: 0.9, Text: text}}, nil
}

func (f *fakeRetriever) filterFor(query string) (retrieval.Filter, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	filter, ok := f.filters[query]
	return filter, ok
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testRouting() config.LLMRoutingConfig {
	return config.LLMRoutingConfig{Targeted: "gpt-4o", General: "gpt-4o"}
}

func testExtractionConfig() config.ExtractionConfig {
	return config.ExtractionConfig{
		MaxConcurrentTasks: 4,
		MaxConcurrentRuns:  2,
		TaskTimeout:        5 * time.Second,
		Retries:            2,
		BackoffFactor:      2,
	}
}

// newTestClient builds an LLM client with sleeping stubbed out.
func newTestClient(p *scriptedProvider) *LLMExtractionClient {
	c := NewLLMExtractionClient(p, testRouting(), testExtractionConfig(), nil, quietLogger())
	c.sleep = func(time.Duration) {}
	return c
}

func newTestReconciler(p *scriptedProvider, r retrieval.Retriever) *Reconciler {
	llm := newTestClient(p)
	fields := NewParallelFieldExtractor(r, llm, 10, 4, 5*time.Second, nil, nil, quietLogger())
	return NewReconciler(NewSpanWindowExtractor(), llm, fields, quietLogger())
}

func strPtr(s string) *string { return &s }
