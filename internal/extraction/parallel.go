package extraction

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/insightloop/contractmeta/internal/retrieval"
)

// ParallelFieldExtractor fans a question batch out over a bounded
// worker pool. Each task retrieves its own context from the vector
// index and makes one LLM call. Task failures are isolated: a failed
// or panicked task contributes an empty result and the batch carries
// on, so one bad field never sinks a run.
type ParallelFieldExtractor struct {
	retriever     retrieval.Retriever
	llm           *LLMExtractionClient
	topK          int
	maxConcurrent int
	taskTimeout   time.Duration
	tracer        trace.Tracer
	taskCounter   otelmetric.Int64Counter
	failCounter   otelmetric.Int64Counter
	logger        *log.Logger
}

func NewParallelFieldExtractor(
	retriever retrieval.Retriever,
	llm *LLMExtractionClient,
	topK, maxConcurrent int,
	taskTimeout time.Duration,
	meter otelmetric.Meter,
	tracer trace.Tracer,
	logger *log.Logger,
) *ParallelFieldExtractor {
	if tracer == nil {
		tracer = trace.NewNoopTracerProvider().Tracer("extraction")
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[FIELDS] ", log.LstdFlags)
	}
	if topK <= 0 {
		topK = 10
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	if taskTimeout <= 0 {
		taskTimeout = 30 * time.Second
	}
	p := &ParallelFieldExtractor{
		retriever:     retriever,
		llm:           llm,
		topK:          topK,
		maxConcurrent: maxConcurrent,
		taskTimeout:   taskTimeout,
		tracer:        tracer,
		logger:        logger,
	}
	if meter != nil {
		var err error
		p.taskCounter, err = meter.Int64Counter("extraction_field_tasks")
		if err != nil {
			logger.Printf("warn: create task counter failed: %v", err)
		}
		p.failCounter, err = meter.Int64Counter("extraction_field_task_failures")
		if err != nil {
			logger.Printf("warn: create failure counter failed: %v", err)
		}
	}
	return p
}

// Run executes all questions concurrently and returns their results.
// Result order is not defined; callers merge by key.
func (p *ParallelFieldExtractor) Run(ctx context.Context, fileID string, questions []QuestionSpec) []FieldResult {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []FieldResult
	)
	sem := make(chan struct{}, p.maxConcurrent)

	for _, q := range questions {
		wg.Add(1)
		sem <- struct{}{}
		go func(q QuestionSpec) {
			defer wg.Done()
			defer func() { <-sem }()
			result := p.runOne(ctx, fileID, q)
			if len(result) == 0 {
				return
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(q)
	}
	wg.Wait()
	return results
}

func (p *ParallelFieldExtractor) runOne(ctx context.Context, fileID string, q QuestionSpec) (result FieldResult) {
	ctx, cancel := context.WithTimeout(ctx, p.taskTimeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, "extraction.field",
		trace.WithAttributes(
			attribute.String("field", q.Key),
			attribute.String("file_id", fileID),
		))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("field %q panicked: %v", q.Key, r)
			span.SetStatus(codes.Error, "panic")
			p.countFailure(ctx, q.Key)
			result = nil
		}
	}()

	if p.taskCounter != nil {
		p.taskCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("field", q.Key)))
	}

	filter := retrieval.Filter{FileID: fileID}
	if q.FirstPage {
		filter.PageNo = 1
	}

	retrieveStart := time.Now()
	matches, err := p.retriever.Search(ctx, filter, p.topK, q.Question)
	if err != nil {
		p.logger.Printf("retrieval for %q failed: %v", q.Key, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.countFailure(ctx, q.Key)
		return nil
	}
	if len(matches) == 0 {
		p.logger.Printf("no context retrieved for %q", q.Key)
		return nil
	}
	chunks := make([]string, 0, len(matches))
	for _, m := range matches {
		chunks = append(chunks, m.Text)
	}
	p.logger.Printf("field %q retrieved %d chunks in %s", q.Key, len(chunks), time.Since(retrieveStart).Round(time.Millisecond))

	answer, err := p.llm.Answer(ctx, q, chunks)
	if err != nil {
		p.logger.Printf("field %q extraction failed: %v", q.Key, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.countFailure(ctx, q.Key)
		return nil
	}
	return answer
}

func (p *ParallelFieldExtractor) countFailure(ctx context.Context, field string) {
	if p.failCounter != nil {
		p.failCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("field", field)))
	}
}
