package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Record is one document to write into the vector index. Embedding
// happens server-side, the same as queries.
type Record struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Upserter writes records into the vector index.
type Upserter interface {
	Upsert(ctx context.Context, records []Record) error
}

type upsertRequest struct {
	IndexName string   `json:"index_name"`
	Records   []Record `json:"records"`
}

// Upsert writes the records into the configured index.
func (c *PineconeClient) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	body, err := json.Marshal(upsertRequest{IndexName: c.indexName, Records: records})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/vectors/upsert", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upsert index: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("index returned status %d", resp.StatusCode)
	}
	return nil
}
