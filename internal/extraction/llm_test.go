package extraction

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestAnswerRetriesMalformedResponse(t *testing.T) {
	var calls int64
	provider := &scriptedProvider{
		respond: func(systemPrompt, userPrompt, model string, temperature float64) (string, error) {
			if atomic.AddInt64(&calls, 1) == 1 {
				return "sorry, I cannot do that", nil
			}
			return `{"Contract Type":"Lease"}`, nil
		},
	}
	client := newTestClient(provider)

	result, err := client.Answer(context.Background(), generalQuestions[0], []string{"some context"})
	if err != nil {
		t.Fatalf("expected recovery on second attempt, got error: %v", err)
	}
	if result["Contract Type"] != "Lease" {
		t.Fatalf("expected parsed result after retry, got %v", result)
	}
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestAnswerRetriesProviderError(t *testing.T) {
	var calls int64
	provider := &scriptedProvider{
		respond: func(systemPrompt, userPrompt, model string, temperature float64) (string, error) {
			if atomic.AddInt64(&calls, 1) == 1 {
				return "", fmt.Errorf("model overloaded")
			}
			return `{"Scope of Work":"construction"}`, nil
		},
	}
	client := newTestClient(provider)

	result, err := client.Answer(context.Background(), generalQuestions[0], []string{"some context"})
	if err != nil {
		t.Fatalf("expected recovery on second attempt, got error: %v", err)
	}
	if result["Scope of Work"] != "construction" {
		t.Fatalf("expected parsed result after retry, got %v", result)
	}
}

func TestAnswerGivesUpAfterRetries(t *testing.T) {
	var calls int64
	provider := &scriptedProvider{
		respond: func(systemPrompt, userPrompt, model string, temperature float64) (string, error) {
			atomic.AddInt64(&calls, 1)
			return "never json", nil
		},
	}
	client := newTestClient(provider)

	if _, err := client.Answer(context.Background(), generalQuestions[0], []string{"some context"}); err == nil {
		t.Fatalf("expected error once retries are exhausted")
	}
	// retries=2 means three attempts in total
	if got := atomic.LoadInt64(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}
