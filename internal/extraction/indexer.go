package extraction

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/insightloop/contractmeta/internal/retrieval"
)

// MetadataIndexer writes the finished metadata document back into the
// vector index so downstream search can answer questions against
// extracted fields, not just raw document text.
type MetadataIndexer struct {
	upserter retrieval.Upserter
	logger   *log.Logger
}

func NewMetadataIndexer(upserter retrieval.Upserter, logger *log.Logger) *MetadataIndexer {
	if logger == nil {
		logger = log.New(log.Writer(), "[INDEX] ", log.LstdFlags)
	}
	return &MetadataIndexer{upserter: upserter, logger: logger}
}

// UpsertMetadata converts every non-null field into one index record.
func (m *MetadataIndexer) UpsertMetadata(ctx context.Context, fileID string, doc *MetadataDocument) error {
	var records []retrieval.Record
	add := func(kind string, fields []MetadataField) {
		for _, f := range fields {
			if f.Value == nil {
				continue
			}
			records = append(records, retrieval.Record{
				ID:   fmt.Sprintf("%s:meta:%s", fileID, slugify(f.Title)),
				Text: fmt.Sprintf("%s: %s", f.Title, *f.Value),
				Metadata: map[string]string{
					"file_id": fileID,
					"kind":    kind,
					"title":   f.Title,
				},
			})
		}
	}
	add("date", doc.Dates)
	add("other", doc.Others)
	if len(records) == 0 {
		m.logger.Printf("file %s produced no metadata records to index", fileID)
		return nil
	}
	if err := m.upserter.Upsert(ctx, records); err != nil {
		return fmt.Errorf("upsert metadata for %s: %w", fileID, err)
	}
	m.logger.Printf("file %s indexed %d metadata records", fileID, len(records))
	return nil
}

func slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}
