package provider

import (
	"context"
	"fmt"

	"github.com/insightloop/contractmeta/config"
	"github.com/insightloop/contractmeta/provider/openai"
)

// CompletionProvider is the contract the extraction engine consumes.
// Complete returns the raw completion text; providers must not attempt
// any JSON handling - that is the caller's concern.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt, model string, temperature float64) (string, error)
	CompleteWithTokens(ctx context.Context, systemPrompt, userPrompt, model string, temperature float64) (string, int64, int64, error)
	CalculateCost(inputTokens, outputTokens int64, model string) float64
}

// NewCompletionProvider creates a provider based on configuration.
func NewCompletionProvider(cfg config.LLMConfig) (CompletionProvider, error) {
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("no LLM providers configured")
	}

	for _, p := range cfg.Providers {
		switch p.Type {
		case "openai":
			return openai.NewClient(p), nil
		default:
			return nil, fmt.Errorf("unsupported LLM provider type: %s", p.Type)
		}
	}

	return nil, fmt.Errorf("no valid LLM providers found")
}
