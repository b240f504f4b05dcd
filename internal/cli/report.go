package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/medclarify/medclarify/internal/llm"
	"github.com/medclarify/medclarify/internal/model"
	"github.com/medclarify/medclarify/internal/report"
)

var (
	reportTimeout time.Duration
	reportJSON    string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Explain a medical report in patient-friendly language",
	Long: `Report analyzes the text of a medical report and produces a
patient-friendly explanation: medical terms in plain language, a summary,
key findings and questions to ask the doctor.

Example:
  medclarify report bloodwork.txt
  medclarify report bloodwork.txt --json explanation.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().DurationVar(&reportTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	reportCmd.Flags().StringVar(&reportJSON, "json", "", "write the explanation as JSON to this path")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	generator, err := llm.NewGenerator(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}
	if generator == nil {
		return fmt.Errorf("report analysis requires an LLM provider (set llm.provider)")
	}

	analyzer := report.NewAnalyzer(generator, cfg.LLM.MaxTokens)
	explanation, err := analyzer.Analyze(ctx, string(raw))
	if err != nil {
		return fmt.Errorf("analyze report: %w", err)
	}

	if len(explanation.Terms) > 0 {
		fmt.Printf("Identified terms: %s\n\n", strings.Join(explanation.Terms, ", "))
	}
	for _, heading := range model.SectionHeadings {
		content, ok := explanation.Sections[heading]
		if !ok {
			continue
		}
		fmt.Printf("%s:\n%s\n\n", heading, content)
	}

	if reportJSON != "" {
		payload, err := json.MarshalIndent(explanation, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal explanation: %w", err)
		}
		if err := os.WriteFile(reportJSON, payload, 0644); err != nil {
			return fmt.Errorf("write explanation: %w", err)
		}
	}
	return nil
}
