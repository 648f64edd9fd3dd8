package extraction

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func echoProvider() *scriptedProvider {
	return &scriptedProvider{
		respond: func(systemPrompt, userPrompt, model string, temperature float64) (string, error) {
			for _, q := range generalQuestions {
				if strings.Contains(userPrompt, q.Question) {
					return fmt.Sprintf(`{"%s":"answer"}`, q.Key), nil
				}
			}
			return "", fmt.Errorf("unknown question")
		},
	}
}

func TestParallelRunCollectsAllAnswers(t *testing.T) {
	llm := newTestClient(echoProvider())
	fields := NewParallelFieldExtractor(&fakeRetriever{}, llm, 10, 3, 5*time.Second, nil, nil, quietLogger())

	results := fields.Run(context.Background(), "file-a", generalQuestions)
	if len(results) != len(generalQuestions) {
		t.Fatalf("expected %d results, got %d", len(generalQuestions), len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		for k := range r {
			seen[k] = true
		}
	}
	for _, q := range generalQuestions {
		if !seen[q.Key] {
			t.Fatalf("missing result for %q", q.Key)
		}
	}
}

func TestParallelRunIsolatesPanics(t *testing.T) {
	llm := newTestClient(echoProvider())
	retriever := &fakeRetriever{panicOn: "risk mitigation"}
	fields := NewParallelFieldExtractor(retriever, llm, 10, 3, 5*time.Second, nil, nil, quietLogger())

	results := fields.Run(context.Background(), "file-b", generalQuestions)
	if len(results) != len(generalQuestions)-1 {
		t.Fatalf("expected %d results with one panicking task, got %d", len(generalQuestions)-1, len(results))
	}
	for _, r := range results {
		if _, ok := r["Risk Mitigation Score"]; ok {
			t.Fatalf("panicking task should not produce a result")
		}
	}
}

func TestParallelRunDropsEmptyRetrievals(t *testing.T) {
	llm := newTestClient(echoProvider())
	fields := NewParallelFieldExtractor(&fakeRetriever{empty: true}, llm, 10, 3, 5*time.Second, nil, nil, quietLogger())

	results := fields.Run(context.Background(), "file-c", generalQuestions)
	if len(results) != 0 {
		t.Fatalf("expected no results without context, got %d", len(results))
	}
}

func TestParallelRunIsolatesLLMFailures(t *testing.T) {
	failing := &scriptedProvider{
		respond: func(systemPrompt, userPrompt, model string, temperature float64) (string, error) {
			if strings.Contains(userPrompt, "What is the title of the contract?") {
				return "", fmt.Errorf("model overloaded")
			}
			for _, q := range generalQuestions {
				if strings.Contains(userPrompt, q.Question) {
					return fmt.Sprintf(`{"%s":"answer"}`, q.Key), nil
				}
			}
			return "", fmt.Errorf("unknown question")
		},
	}
	llm := newTestClient(failing)
	fields := NewParallelFieldExtractor(&fakeRetriever{}, llm, 10, 3, 5*time.Second, nil, nil, quietLogger())

	results := fields.Run(context.Background(), "file-d", generalQuestions)
	if len(results) != len(generalQuestions)-1 {
		t.Fatalf("expected %d results with one failing task, got %d", len(generalQuestions)-1, len(results))
	}
}
