package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	verifyTimeout time.Duration
	verifyTopK    int
	verifyJSON    string
	llmProvider   string
	llmModel      string
	seedPath      string
	storeBackend  string
	serpKey       string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim>",
	Short: "Verify a single health claim",
	Long: `Verify checks a health claim against stored evidence, falling back to
web search over trusted medical domains when nothing relevant is found.

Example:
  medclarify verify "garlic lowers blood pressure"
  medclarify verify "vitamin C prevents colds" --json outcome.json
  medclarify verify "honey soothes sore throats" --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().IntVar(&verifyTopK, "top-k", 0, "stored evidence candidates to retrieve (0 = default)")
	verifyCmd.Flags().StringVar(&verifyJSON, "json", "", "write the full outcome as JSON to this path")
	verifyCmd.Flags().StringVar(&seedPath, "seed", "", "seed dataset path (JSON) to bootstrap an empty store")
	verifyCmd.Flags().StringVar(&storeBackend, "store", "", "store backend (memory, weaviate)")
	verifyCmd.Flags().StringVar(&serpKey, "serp-key", "", "search provider API key (overrides SERPAPI_KEY)")

	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	claim := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if verifyTopK > 0 {
		cfg.Store.TopK = verifyTopK
	}
	if seedPath != "" {
		cfg.Store.SeedPath = seedPath
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
	}
	if serpKey != "" {
		cfg.Search.APIKey = serpKey
	}

	orchestrator, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n\n", claim)
	}

	outcome := orchestrator.Verify(ctx, claim)

	fmt.Println(outcome.Answer)

	if verbose {
		fmt.Fprintln(os.Stderr)
		for i, item := range outcome.Evidence {
			fmt.Fprintf(os.Stderr, "Evidence #%d [%s] (relevance %.2f): %s\n",
				i+1, item.Record.EvidenceLevel, item.RelevanceScore, item.Record.ClaimText)
		}
		if outcome.NewContentAdded {
			fmt.Fprintln(os.Stderr, "New synthesized evidence was stored.")
		}
	}

	if verifyJSON != "" {
		payload, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal outcome: %w", err)
		}
		if err := os.WriteFile(verifyJSON, payload, 0644); err != nil {
			return fmt.Errorf("write outcome: %w", err)
		}
	}
	return nil
}
