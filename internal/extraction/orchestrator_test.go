package extraction

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type memoryStatusStore struct {
	mu          sync.Mutex
	statuses    []RunStatus
	progress    []int
	metadata    map[string]*MetadataDocument
	metadataErr error
}

func newMemoryStatusStore() *memoryStatusStore {
	return &memoryStatusStore{metadata: make(map[string]*MetadataDocument)}
}

func (m *memoryStatusStore) SetStatus(ctx context.Context, fileID string, status RunStatus, progress int, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	m.progress = append(m.progress, progress)
	return nil
}

func (m *memoryStatusStore) SetMetadata(ctx context.Context, fileID string, doc *MetadataDocument) error {
	if m.metadataErr != nil {
		return m.metadataErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[fileID] = doc
	return nil
}

func (m *memoryStatusStore) lastStatus() RunStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.statuses) == 0 {
		return ""
	}
	return m.statuses[len(m.statuses)-1]
}

func (m *memoryStatusStore) sawProgress(want int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.progress {
		if p == want {
			return true
		}
	}
	return false
}

func happyAnswers() map[string]string {
	answers := batteryNulls()
	answers["dates"] = `{"Effective Date":"2024-01-01","Termination Date":"null","Renewal Date":"null","Expiration Date":"2029-12-31","Delivery Date":"null","Term Date":"null"}`
	answers["jurisdiction"] = `{"Jurisdiction":"Delaware"}`
	answers["value"] = `{"Contract Value":"500000"}`
	answers["recurring"] = `{"flag": false, "Payment Due Date": "null"}`
	return answers
}

func newTestOrchestrator(st StatusStore) *Orchestrator {
	recon := newTestReconciler(respondWith(happyAnswers()), &fakeRetriever{})
	return NewOrchestrator(recon, st, nil, nil, nil, 2, time.Minute, nil, nil, quietLogger())
}

func TestOrchestratorCompletesRun(t *testing.T) {
	st := newMemoryStatusStore()
	orch := newTestOrchestrator(st)

	doc, err := orch.ExtractFile(context.Background(), "file-ok", contractChunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatalf("expected a document")
	}
	if st.lastStatus() != StatusCompleted {
		t.Fatalf("expected completed status, got %s", st.lastStatus())
	}
	if st.metadata["file-ok"] == nil {
		t.Fatalf("metadata not persisted")
	}
	for _, checkpoint := range []int{25, 50, 75, 100} {
		if !st.sawProgress(checkpoint) {
			t.Fatalf("missing %d%% checkpoint, got %v", checkpoint, st.progress)
		}
	}
}

func TestOrchestratorMarksFailureOnPersistError(t *testing.T) {
	st := newMemoryStatusStore()
	st.metadataErr = fmt.Errorf("disk full")
	orch := newTestOrchestrator(st)

	if _, err := orch.ExtractFile(context.Background(), "file-bad", contractChunks); err == nil {
		t.Fatalf("expected error when persistence fails")
	}
	if st.lastStatus() != StatusFailed {
		t.Fatalf("expected failed status, got %s", st.lastStatus())
	}
}

func TestOrchestratorRespectsContextCancellation(t *testing.T) {
	st := newMemoryStatusStore()
	orch := newTestOrchestrator(st)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.ExtractFile(ctx, "file-cancelled", contractChunks); err == nil {
		t.Fatalf("expected error from cancelled context")
	}
}
