package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/insightloop/contractmeta/config"
	"github.com/insightloop/contractmeta/internal/extraction"
	"github.com/insightloop/contractmeta/internal/retrieval"
	"github.com/insightloop/contractmeta/internal/telemetry"
	"github.com/insightloop/contractmeta/provider"
)

// extractCMD runs the pipeline once against a local chunk file and
// prints the metadata document. No Postgres or Redis needed; useful
// for trying prompts or regexes against a single contract.
func extractCMD() *cobra.Command {
	var (
		fileID    string
		inputPath string
	)
	var extract = &cobra.Command{
		Use:   "extract",
		Short: "Run one extraction locally and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			var chunks []string
			if err := json.Unmarshal(raw, &chunks); err != nil {
				return fmt.Errorf("input must be a JSON array of page texts: %w", err)
			}

			completions, err := provider.NewCompletionProvider(cfg.LLM)
			if err != nil {
				return err
			}
			costs := telemetry.NewCostTracker()
			pinecone := retrieval.NewPineconeClient(cfg.Retrieval)
			llm := extraction.NewLLMExtractionClient(completions, cfg.LLM.Routing, cfg.Extraction, costs,
				log.New(os.Stderr, "[LLM] ", log.LstdFlags))
			fields := extraction.NewParallelFieldExtractor(pinecone, llm,
				cfg.Retrieval.TopK, cfg.Extraction.MaxConcurrentTasks, cfg.Extraction.TaskTimeout,
				nil, nil, log.New(os.Stderr, "[FIELDS] ", log.LstdFlags))
			recon := extraction.NewReconciler(extraction.NewSpanWindowExtractor(), llm, fields,
				log.New(os.Stderr, "[RECON] ", log.LstdFlags))
			orch := extraction.NewOrchestrator(recon, nil, nil, nil, costs,
				1, cfg.General.MaxProcessingTime, nil, nil,
				log.New(os.Stderr, "[ORCH] ", log.LstdFlags))

			doc, err := orch.ExtractFile(cmd.Context(), fileID, chunks)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	extract.Flags().StringVar(&fileID, "file-id", "", "file identifier used for vector index filtering")
	extract.Flags().StringVar(&inputPath, "input", "", "path to a JSON array of page texts")
	_ = extract.MarkFlagRequired("file-id")
	_ = extract.MarkFlagRequired("input")

	return extract
}
