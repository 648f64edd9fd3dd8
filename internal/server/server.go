package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightloop/contractmeta/config"
	"github.com/insightloop/contractmeta/internal/extraction"
	"github.com/insightloop/contractmeta/internal/retrieval"
	"github.com/insightloop/contractmeta/internal/store"
	"github.com/insightloop/contractmeta/internal/telemetry"
	"github.com/insightloop/contractmeta/provider"
)

// Run wires every dependency and serves the extraction API until the
// process exits.
func Run(ctx context.Context, cfg *config.Config, version string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	tele, meter, tracer, err := telemetry.Setup(ctx, cfg.Telemetry, telemetry.Options{
		ServiceName:    "contractmeta",
		ServiceVersion: version,
		MetricsPort:    cfg.Telemetry.MetricsPort,
	})
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() {
		if err := tele.Shutdown(context.Background()); err != nil {
			baseLogger.Printf("telemetry shutdown: %v", err)
		}
	}()

	st, err := store.New(ctx, cfg.Storage.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer st.Close()

	redisClient, err := store.ConnRedis(ctx, cfg.Storage.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	progress := store.NewProgressCache(redisClient)

	completions, err := provider.NewCompletionProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}

	var costs *telemetry.CostTracker
	if cfg.Telemetry.CostTracking {
		costs = telemetry.NewCostTracker()
	}

	pinecone := retrieval.NewPineconeClient(cfg.Retrieval)
	llm := extraction.NewLLMExtractionClient(completions, cfg.LLM.Routing, cfg.Extraction, costs,
		log.New(log.Writer(), "[LLM] ", log.LstdFlags))
	fields := extraction.NewParallelFieldExtractor(pinecone, llm,
		cfg.Retrieval.TopK, cfg.Extraction.MaxConcurrentTasks, cfg.Extraction.TaskTimeout,
		meter, tracer, log.New(log.Writer(), "[FIELDS] ", log.LstdFlags))
	recon := extraction.NewReconciler(extraction.NewSpanWindowExtractor(), llm, fields,
		log.New(log.Writer(), "[RECON] ", log.LstdFlags))
	indexer := extraction.NewMetadataIndexer(pinecone, log.New(log.Writer(), "[INDEX] ", log.LstdFlags))
	orch := extraction.NewOrchestrator(recon, st, progress, indexer, costs,
		cfg.Extraction.MaxConcurrentRuns, cfg.General.MaxProcessingTime,
		meter, tracer, log.New(log.Writer(), "[ORCH] ", log.LstdFlags))

	h := &ExtractHandler{
		Orch:     orch,
		Store:    st,
		Progress: progress,
		Logger:   log.New(log.Writer(), "[API] ", log.LstdFlags),
	}
	h.Register(e.Group("/api/v1"))

	return e.Start(cfg.Server.Addr)
}
