package extraction

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/insightloop/contractmeta/config"
	"github.com/insightloop/contractmeta/internal/telemetry"
	"github.com/insightloop/contractmeta/provider"
)

const (
	datesSystemPrompt = `You are an assistant that understands and extracts relevant dates from the legal agreement's and contract's context provided to you.
        You also provide the dates extracted in a specific format as per the instructions provided to you.`

	jurisdictionSystemPrompt = `You are an assistant that understands and extracts jurisdiction from the legal contract context`

	contractValueSystemPrompt = `You are an assistant that understands, calculates and extracts the contract value from the legal agreement's, contract's context provided to you.`

	generalSystemPrompt = `You are an assistant that extracts precise and relevant information from contracts and agreements, providing minimal and accurate answers in a clear format.`
)

// LLMExtractionClient wraps a completion provider with the prompt
// shapes and retry policy the extraction passes need. Targeted calls
// (dates, jurisdiction, contract value) run at temperature 0.5 and are
// retried with error feedback folded into the prompt; general battery
// calls run deterministically at temperature 0.
type LLMExtractionClient struct {
	provider provider.CompletionProvider
	routing  config.LLMRoutingConfig
	retries  int
	backoff  int
	costs    *telemetry.CostTracker
	logger   *log.Logger
	sleep    func(time.Duration)
}

func NewLLMExtractionClient(p provider.CompletionProvider, routing config.LLMRoutingConfig, cfg config.ExtractionConfig, costs *telemetry.CostTracker, logger *log.Logger) *LLMExtractionClient {
	if logger == nil {
		logger = log.New(log.Writer(), "[LLM] ", log.LstdFlags)
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = 2
	}
	backoff := cfg.BackoffFactor
	if backoff <= 0 {
		backoff = 2
	}
	return &LLMExtractionClient{
		provider: p,
		routing:  routing,
		retries:  retries,
		backoff:  backoff,
		costs:    costs,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// ExtractDates runs the six-field date extraction over the pre-filtered
// span windows. A nil result means every attempt failed; callers treat
// that as all-null rather than aborting the run.
func (c *LLMExtractionClient) ExtractDates(ctx context.Context, spans []string) FieldResult {
	if len(spans) == 0 {
		c.logger.Printf("no date spans matched, skipping dates call")
		return nil
	}
	build := func(feedback string) string {
		return fmt.Sprintf(`%s
    Below is the text paragraph consisting of all the dates filtered from the legal agreement's and contract's context provided to you.
    %s.
    Output should be a minimal json, DO NOT provide any extra words. %s`, dateExtractionInstructions, strings.Join(spans, "\n\n"), feedback)
	}
	return c.completeJSON(ctx, "dates", datesSystemPrompt, build, 0.5)
}

// ExtractJurisdiction runs the jurisdiction extraction over its span windows.
func (c *LLMExtractionClient) ExtractJurisdiction(ctx context.Context, spans []string) FieldResult {
	if len(spans) == 0 {
		c.logger.Printf("no jurisdiction spans matched, skipping jurisdiction call")
		return nil
	}
	build := func(feedback string) string {
		return fmt.Sprintf(`%s
    Below is the text paragraph filtered from the legal agreement's and contract's context provided to you.
    %s.
    Output should be a minimal json, DO NOT provide any extra words. %s`, jurisdictionInstructions, strings.Join(spans, "\n\n"), feedback)
	}
	return c.completeJSON(ctx, "jurisdiction", jurisdictionSystemPrompt, build, 0.5)
}

// ExtractContractValue runs the contract value extraction over its span windows.
func (c *LLMExtractionClient) ExtractContractValue(ctx context.Context, spans []string) FieldResult {
	if len(spans) == 0 {
		c.logger.Printf("no contract value spans matched, skipping contract value call")
		return nil
	}
	build := func(feedback string) string {
		return fmt.Sprintf(`%s
    Below is the text paragraph filtered from the legal agreement's and contract's context provided to you.
    %s.
    Output should be a minimal json, DO NOT provide any extra words. %s`, contractValueInstructions, strings.Join(spans, "\n\n"), feedback)
	}
	return c.completeJSON(ctx, "contract_value", contractValueSystemPrompt, build, 0.5)
}

// Answer runs one question from the battery against retrieved context.
// Call and parse retry together under the same backoff policy as the
// targeted path, re-issuing the identical prompt; a transiently
// malformed response recovers on the next attempt. Unlike the targeted
// calls it surfaces the final error; the parallel runner decides how
// to isolate it.
func (c *LLMExtractionClient) Answer(ctx context.Context, q QuestionSpec, contextChunks []string) (FieldResult, error) {
	userPrompt := fmt.Sprintf(`Answer the query based on the instructions.
        Question: %s
        %s
        Here is relevant information:
        %s.
        Output should be a minimal one line json, DO NOT provide any extra words.
        ###Output Format:
        Strictly do not include "%s" or "%sjson" or any markers in your response.`,
		q.Question, q.Instruction, strings.Join(contextChunks, "\n\n"), "```", "```")

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		raw, err := c.complete(ctx, "general", generalSystemPrompt, userPrompt, c.routing.General, 0)
		if err == nil {
			result, perr := ParseFieldResult(raw)
			if perr == nil {
				return result, nil
			}
			err = fmt.Errorf("parse %q response: %w", q.Key, perr)
		}
		lastErr = err
		c.logger.Printf("%q attempt %d failed: %v", q.Key, attempt+1, err)
		if attempt == c.retries {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.sleep(time.Duration(math.Pow(float64(c.backoff), float64(attempt))) * time.Second)
	}
	return nil, lastErr
}

// completeJSON drives the targeted retry loop: call, parse, and on
// failure re-prompt with the error folded in as feedback, backing off
// exponentially between attempts. Exhaustion returns nil.
func (c *LLMExtractionClient) completeJSON(ctx context.Context, callType, systemPrompt string, build func(feedback string) string, temperature float64) FieldResult {
	feedback := ""
	for attempt := 0; attempt <= c.retries; attempt++ {
		raw, err := c.complete(ctx, callType, systemPrompt, build(feedback), c.routing.Targeted, temperature)
		if err == nil {
			result, perr := ParseFieldResult(raw)
			if perr == nil {
				return result
			}
			err = perr
		}
		c.logger.Printf("%s attempt %d failed: %v", callType, attempt+1, err)
		if attempt == c.retries {
			break
		}
		feedback = fmt.Sprintf("Previous error encountered: %v.", err)
		if ctx.Err() != nil {
			c.logger.Printf("%s aborted: %v", callType, ctx.Err())
			return nil
		}
		c.sleep(time.Duration(math.Pow(float64(c.backoff), float64(attempt))) * time.Second)
	}
	c.logger.Printf("all %s retries failed", callType)
	return nil
}

func (c *LLMExtractionClient) complete(ctx context.Context, callType, systemPrompt, userPrompt, model string, temperature float64) (string, error) {
	start := time.Now()
	text, inTok, outTok, err := c.provider.CompleteWithTokens(ctx, systemPrompt, userPrompt, model, temperature)
	dur := time.Since(start)
	if err != nil {
		if model != c.routing.Fallback && c.routing.Fallback != "" {
			c.logger.Printf("%s call on %s failed (%v), falling back to %s", callType, model, err, c.routing.Fallback)
			text, inTok, outTok, err = c.provider.CompleteWithTokens(ctx, systemPrompt, userPrompt, c.routing.Fallback, temperature)
			model = c.routing.Fallback
			dur = time.Since(start)
		}
		if err != nil {
			return "", err
		}
	}
	if c.costs != nil {
		c.costs.Record(inTok, outTok, c.provider.CalculateCost(inTok, outTok, model), dur)
	}
	c.logger.Printf("%s call completed model=%s tokens_in=%d tokens_out=%d duration=%s", callType, model, inTok, outTok, dur)
	return text, nil
}
