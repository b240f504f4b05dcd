package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/medclarify/medclarify/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple claims from a file in parallel",
	Long: `Batch verifies many health claims concurrently:
- Read claims from input file (one per line, # for comments)
- Verify claims in parallel with configurable worker count
- Write one JSON outcome per claim

Example:
  medclarify batch claims.txt
  medclarify batch claims.txt --concurrency 8 --output-dir ./outcomes`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./medclarify-outcomes", "output directory for outcome files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BatchWorkers
	}

	orchestrator, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(orchestrator, concurrency)

	fmt.Fprintf(os.Stderr, "Reading claims from %s\n", file)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Verified %d claims with %d workers\n\n", len(results), concurrency)

	succeeded := 0
	failed := 0
	stored := 0

	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.Claim, result.Err)
			continue
		}

		succeeded++
		if result.Outcome.NewContentAdded {
			stored++
		}

		path := filepath.Join(outputDir, claimFilename(result.Claim))
		payload, err := json.MarshalIndent(result.Outcome, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: marshal outcome: %v\n", result.Claim, err)
			continue
		}
		if err := os.WriteFile(path, payload, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write outcome: %v\n", result.Claim, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "OK   %s (evidence: %d)\n", result.Claim, len(result.Outcome.Evidence))
	}

	fmt.Fprintf(os.Stderr, "\nTotal: %d  Succeeded: %d  Failed: %d  New records stored: %d\n",
		len(results), succeeded, failed, stored)
	fmt.Fprintf(os.Stderr, "Outcomes written to %s\n", outputDir)
	return nil
}

// claimFilename turns a claim into a safe outcome file name
func claimFilename(claim string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(claim) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "claim"
	}
	if len(name) > 100 {
		name = name[:100]
	}
	return name + ".json"
}
