package retrieval

import "context"

// Filter restricts a vector query to one ingested file, optionally pinned
// to a single page. PageNo == 0 means no page restriction.
type Filter struct {
	FileID string
	PageNo int
}

// Match is one retrieved passage with its stored text.
type Match struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Retriever is the external vector index contract. An empty result slice
// means "no context found" and is never an error.
type Retriever interface {
	Search(ctx context.Context, filter Filter, topK int, query string) ([]Match, error)
}
