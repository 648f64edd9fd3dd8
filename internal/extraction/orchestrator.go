package extraction

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/insightloop/contractmeta/internal/telemetry"
)

// RunStatus is the lifecycle state persisted for a file run.
type RunStatus string

const (
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// StatusStore persists run state and the final metadata document.
type StatusStore interface {
	SetStatus(ctx context.Context, fileID string, status RunStatus, progress int, errMsg string) error
	SetMetadata(ctx context.Context, fileID string, doc *MetadataDocument) error
}

// ProgressCache mirrors run progress into a fast lookup for pollers.
type ProgressCache interface {
	SetProgress(ctx context.Context, fileID string, percent int) error
}

// VectorIndexer receives the finished document for downstream indexing.
type VectorIndexer interface {
	UpsertMetadata(ctx context.Context, fileID string, doc *MetadataDocument) error
}

// Orchestrator owns extraction runs end to end: status bookkeeping,
// concurrency limits, tracing, cost accounting, persistence, and the
// handoff to the vector indexer.
type Orchestrator struct {
	recon      *Reconciler
	status     StatusStore
	progress   ProgressCache
	indexer    VectorIndexer
	costs      *telemetry.CostTracker
	tracer     trace.Tracer
	runCounter otelmetric.Int64Counter
	sem        chan struct{}
	maxRunTime time.Duration
	logger     *log.Logger
	now        func() time.Time
}

func NewOrchestrator(
	recon *Reconciler,
	status StatusStore,
	progress ProgressCache,
	indexer VectorIndexer,
	costs *telemetry.CostTracker,
	maxConcurrentRuns int,
	maxRunTime time.Duration,
	meter otelmetric.Meter,
	tracer trace.Tracer,
	logger *log.Logger,
) *Orchestrator {
	if tracer == nil {
		tracer = trace.NewNoopTracerProvider().Tracer("orchestrator")
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[ORCH] ", log.LstdFlags)
	}
	if maxConcurrentRuns <= 0 {
		maxConcurrentRuns = 4
	}
	if maxRunTime <= 0 {
		maxRunTime = 10 * time.Minute
	}
	o := &Orchestrator{
		recon:      recon,
		status:     status,
		progress:   progress,
		indexer:    indexer,
		costs:      costs,
		tracer:     tracer,
		sem:        make(chan struct{}, maxConcurrentRuns),
		maxRunTime: maxRunTime,
		logger:     logger,
		now:        time.Now,
	}
	if meter != nil {
		var err error
		o.runCounter, err = meter.Int64Counter("extraction_runs")
		if err != nil {
			logger.Printf("warn: create run counter failed: %v", err)
		}
	}
	return o
}

// ExtractFile runs the full pipeline for one file. It blocks while the
// run-concurrency limit is saturated, records a failed status before
// returning any error, and always leaves the file in a terminal state.
func (o *Orchestrator) ExtractFile(ctx context.Context, fileID string, chunks []string) (*MetadataDocument, error) {
	select {
	case o.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-o.sem }()

	ctx, cancel := context.WithTimeout(ctx, o.maxRunTime)
	defer cancel()

	runID := uuid.New().String()
	ctx, span := o.tracer.Start(ctx, "extraction.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("file_id", fileID),
			attribute.Int("chunks", len(chunks)),
		))
	defer span.End()

	start := o.now()
	o.logger.Printf("run %s starting for file %s (%d chunks)", runID, fileID, len(chunks))
	o.setStatus(ctx, fileID, StatusProcessing, 0, "")

	var before telemetry.Summary
	if o.costs != nil {
		before = o.costs.Summary()
	}

	doc, err := o.runPipeline(ctx, fileID, chunks)
	if err != nil {
		o.logger.Printf("run %s failed: %v", runID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.countRun(ctx, "failed")
		o.setStatus(ctx, fileID, StatusFailed, 0, err.Error())
		return nil, err
	}

	if o.status != nil {
		if err := o.status.SetMetadata(ctx, fileID, doc); err != nil {
			o.logger.Printf("run %s failed persisting metadata: %v", runID, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.countRun(ctx, "failed")
			o.setStatus(ctx, fileID, StatusFailed, 0, err.Error())
			return nil, fmt.Errorf("persist metadata: %w", err)
		}
	}

	if o.indexer != nil {
		if err := o.indexer.UpsertMetadata(ctx, fileID, doc); err != nil {
			// indexing is downstream enrichment, the run still counts
			o.logger.Printf("run %s metadata indexing failed: %v", runID, err)
			span.RecordError(err)
		}
	}

	o.setStatus(ctx, fileID, StatusCompleted, 100, "")
	o.countRun(ctx, "completed")

	elapsed := o.now().Sub(start)
	if o.costs != nil {
		after := o.costs.Summary()
		o.logger.Printf("run %s completed in %s: llm_calls=%d tokens_in=%d tokens_out=%d cost_usd=%.4f llm_time=%s",
			runID, elapsed.Round(time.Millisecond),
			after.Calls-before.Calls,
			after.InputTokens-before.InputTokens,
			after.OutputTokens-before.OutputTokens,
			after.TotalCost-before.TotalCost,
			(after.LLMDuration - before.LLMDuration).Round(time.Millisecond))
	} else {
		o.logger.Printf("run %s completed in %s", runID, elapsed.Round(time.Millisecond))
	}
	return doc, nil
}

func (o *Orchestrator) runPipeline(ctx context.Context, fileID string, chunks []string) (doc *MetadataDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extraction panicked: %v", r)
		}
	}()
	doc = o.recon.Extract(ctx, fileID, chunks, o.now(), o.ProgressFunc(fileID))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return doc, nil
}

func (o *Orchestrator) countRun(ctx context.Context, outcome string) {
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (o *Orchestrator) setStatus(ctx context.Context, fileID string, status RunStatus, progress int, errMsg string) {
	if o.status != nil {
		if err := o.status.SetStatus(ctx, fileID, status, progress, errMsg); err != nil {
			o.logger.Printf("warn: set status %s for %s failed: %v", status, fileID, err)
		}
	}
	o.setProgress(ctx, fileID, progress)
}

func (o *Orchestrator) setProgress(ctx context.Context, fileID string, percent int) {
	if o.progress == nil {
		return
	}
	if err := o.progress.SetProgress(ctx, fileID, percent); err != nil {
		o.logger.Printf("warn: set progress for %s failed: %v", fileID, err)
	}
}

// ProgressFunc returns a checkpoint callback wired to the status store
// and progress cache, for use by the reconciler.
func (o *Orchestrator) ProgressFunc(fileID string) ProgressFunc {
	return func(ctx context.Context, percent int) {
		o.setStatus(ctx, fileID, StatusProcessing, percent, "")
	}
}
