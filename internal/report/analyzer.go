package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medclarify/medclarify/internal/llm"
	"github.com/medclarify/medclarify/internal/model"
)

// maxReportChars bounds how much report text goes into a single prompt
const maxReportChars = 8000

// maxTerms caps the medical terms carried into the explanation prompt
const maxTerms = 20

// minTermLen filters out trivial fragments from term extraction
const minTermLen = 3

// defaultMaxTokens is the completion budget for the explanation call
const defaultMaxTokens = 1500

// Analyzer turns raw medical report text into a patient-friendly
// explanation: identified terms plus structured sections.
type Analyzer struct {
	generator llm.Generator
	maxTokens int
}

// NewAnalyzer creates a report analyzer backed by the given generator
func NewAnalyzer(generator llm.Generator, maxTokens int) *Analyzer {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Analyzer{generator: generator, maxTokens: maxTokens}
}

// Analyze explains the report text for a patient. Term extraction failures
// degrade to an empty term list; only a failed explanation call is fatal.
func (a *Analyzer) Analyze(ctx context.Context, reportText string) (*model.ReportExplanation, error) {
	text := strings.TrimSpace(reportText)
	if text == "" {
		return nil, fmt.Errorf("empty report text")
	}
	if len(text) > maxReportChars {
		text = text[:maxReportChars]
	}

	terms := a.extractTerms(ctx, text)

	raw, err := a.generator.Complete(ctx, buildExplanationPrompt(terms, text), a.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate report explanation: %w", err)
	}

	return &model.ReportExplanation{
		Terms:    terms,
		Sections: ParseSections(raw),
	}, nil
}

// extractTerms asks the model for the medical terms in the report. The list
// is deduplicated in first-seen order and capped at maxTerms.
func (a *Analyzer) extractTerms(ctx context.Context, text string) []string {
	prompt := "Identify the medical terms, tests, conditions, and measurements in the following report. " +
		"Respond with ONLY a comma-separated list of terms, no other text.\n\n" + text

	raw, err := a.generator.Complete(ctx, prompt, 300)
	if err != nil {
		slog.Warn("term extraction failed", "error", err)
		return []string{}
	}

	seen := make(map[string]bool)
	terms := []string{}
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }) {
		term := strings.TrimSpace(part)
		if len(term) <= minTermLen {
			continue
		}
		key := strings.ToLower(term)
		if seen[key] {
			continue
		}
		seen[key] = true

		terms = append(terms, term)
		if len(terms) == maxTerms {
			break
		}
	}
	return terms
}

// buildExplanationPrompt lays out the two-part explanation task and pins the
// section headings the parser splits on.
func buildExplanationPrompt(terms []string, text string) string {
	return fmt.Sprintf(
		"You are a medical professional explaining complex medical concepts to patients. Your task is to:\n\n"+
			"1) Explain these medical terms in simple language a patient could understand: %s\n\n"+
			"2) Provide a patient-friendly summary of this medical report, explaining what it means for the patient's health:\n\n%s\n\n"+
			"Format your response with clear headings:\n\n"+
			"%s:\n"+
			"(Explain all medical terms, tests, conditions, and measurements)\n\n"+
			"%s:\n"+
			"(Provide a 2-3 paragraph summary of what the report means in everyday language)\n\n"+
			"%s:\n"+
			"(List 3-5 bullet points of the most important information patients should know)\n\n"+
			"%s:\n"+
			"(Suggest 3 questions the patient might want to ask their healthcare provider)",
		strings.Join(terms, ", "), text,
		model.SectionTerms, model.SectionSummary, model.SectionFindings, model.SectionQuestions)
}
