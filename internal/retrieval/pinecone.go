package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/insightloop/contractmeta/config"
)

// PineconeClient queries a Pinecone-style vector index over HTTP. The
// index service performs query embedding server-side; this client only
// carries the query text and metadata filter.
type PineconeClient struct {
	indexName  string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type queryRequest struct {
	IndexName string                 `json:"index_name"`
	Query     string                 `json:"query"`
	TopK      int                    `json:"top_k"`
	Filter    map[string]interface{} `json:"filter"`
}

type queryResponse struct {
	Matches []struct {
		ID       string  `json:"id"`
		Score    float64 `json:"score"`
		Metadata struct {
			Text string `json:"text"`
		} `json:"metadata"`
	} `json:"matches"`
}

// NewPineconeClient creates a retrieval client from configuration.
func NewPineconeClient(cfg config.RetrievalConfig) *PineconeClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &PineconeClient{
		indexName:  cfg.IndexName,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search retrieves the topK passages most relevant to query, restricted
// by the metadata filter. Empty matches are returned as an empty slice.
func (c *PineconeClient) Search(ctx context.Context, filter Filter, topK int, query string) ([]Match, error) {
	mdFilter := map[string]interface{}{
		"file_id": map[string]interface{}{"$eq": filter.FileID},
	}
	if filter.PageNo > 0 {
		mdFilter["page_no"] = map[string]interface{}{"$eq": filter.PageNo}
	}

	body, err := json.Marshal(queryRequest{
		IndexName: c.indexName,
		Query:     query,
		TopK:      topK,
		Filter:    mdFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/query", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index returned status %d", resp.StatusCode)
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	matches := make([]Match, 0, len(out.Matches))
	for _, m := range out.Matches {
		matches = append(matches, Match{ID: m.ID, Score: m.Score, Text: m.Metadata.Text})
	}
	return matches, nil
}
