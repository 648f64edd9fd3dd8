package telemetry

import (
	"sync"
	"time"
)

// CostTracker accumulates LLM spend and token usage for one extraction
// run. Safe for use from concurrent field tasks.
type CostTracker struct {
	mu           sync.Mutex
	totalCost    float64
	inputTokens  int64
	outputTokens int64
	calls        int64
	llmDuration  time.Duration
}

func NewCostTracker() *CostTracker { return &CostTracker{} }

// Record adds one completed LLM call to the running totals.
func (c *CostTracker) Record(inputTokens, outputTokens int64, cost float64, dur time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalCost += cost
	c.inputTokens += inputTokens
	c.outputTokens += outputTokens
	c.calls++
	c.llmDuration += dur
}

// Summary is a point-in-time snapshot of the accumulated totals.
type Summary struct {
	TotalCost    float64
	InputTokens  int64
	OutputTokens int64
	Calls        int64
	LLMDuration  time.Duration
}

func (c *CostTracker) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Summary{
		TotalCost:    c.totalCost,
		InputTokens:  c.inputTokens,
		OutputTokens: c.outputTokens,
		Calls:        c.calls,
		LLMDuration:  c.llmDuration,
	}
}
