package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/insightloop/contractmeta/config"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements the completion provider contract using OpenAI's
// chat completions API over raw HTTP.
type Client struct {
	config     config.LLMProvider
	models     map[string]config.LLMModel
	httpClient *http.Client
}

// message represents a message in a conversation
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest represents a request to the OpenAI API
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// chatResponse represents a response from the OpenAI API
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// NewClient creates a new OpenAI client
func NewClient(cfg config.LLMProvider) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		config:     cfg,
		models:     cfg.Models,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete sends a system+user prompt pair and returns the completion text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt, model string, temperature float64) (string, error) {
	text, _, _, err := c.CompleteWithTokens(ctx, systemPrompt, userPrompt, model, temperature)
	return text, err
}

// CompleteWithTokens sends a completion request and returns the text plus
// prompt/completion token counts.
func (c *Client) CompleteWithTokens(ctx context.Context, systemPrompt, userPrompt, model string, temperature float64) (string, int64, int64, error) {
	apiKey := c.config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return "", 0, 0, fmt.Errorf("OpenAI API key not configured")
	}

	apiModel := model
	maxTokens := 0
	if m, ok := c.models[model]; ok {
		if m.APIName != "" {
			apiModel = m.APIName
		}
		maxTokens = m.MaxTokens
	}

	body, err := json.Marshal(chatRequest{
		Model: apiModel,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", 0, 0, fmt.Errorf("marshal: %w", err)
	}

	baseURL := c.config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", 0, 0, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, 0, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", 0, 0, fmt.Errorf("OpenAI status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, 0, fmt.Errorf("decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", 0, 0, fmt.Errorf("no choices in response")
	}

	return out.Choices[0].Message.Content, int64(out.Usage.PromptTokens), int64(out.Usage.CompletionTokens), nil
}

// CalculateCost calculates the cost for a given number of tokens
func (c *Client) CalculateCost(inputTokens, outputTokens int64, model string) float64 {
	m, ok := c.models[model]
	if !ok {
		return 0.0
	}
	inputCost := float64(inputTokens) / 1000.0 * m.CostPer1K
	outputCost := float64(outputTokens) / 1000.0 * m.CostPer1KOutput
	return inputCost + outputCost
}
