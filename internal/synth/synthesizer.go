package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/medclarify/medclarify/internal/llm"
	"github.com/medclarify/medclarify/internal/model"
)

// maxDocChars bounds how much of each evidence document goes into the prompt
const maxDocChars = 3000

// defaultMaxTokens is the completion budget for a synthesis call
const defaultMaxTokens = 800

// requiredFields must all be present in the model's JSON output for the
// synthesis to be accepted.
var requiredFields = []string{"claim", "evidence_level", "explanation", "sources"}

// Synthesizer condenses gathered web evidence into a structured claim record
// via the configured language model.
type Synthesizer struct {
	generator llm.Generator
	maxTokens int
}

// NewSynthesizer creates a synthesizer backed by the given generator
func NewSynthesizer(generator llm.Generator, maxTokens int) *Synthesizer {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Synthesizer{generator: generator, maxTokens: maxTokens}
}

// Synthesize asks the model to analyze the claim against the gathered
// documents and returns a validated record with web_search origin. Returns
// nil with no error when there are no documents to synthesize from.
func (s *Synthesizer) Synthesize(ctx context.Context, claim string, docs []model.EvidenceDocument) (*model.ClaimRecord, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	prompt := buildPrompt(claim, docs)

	raw, err := s.generator.Complete(ctx, prompt, s.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate synthesis: %w", err)
	}

	record, err := parseSynthesis(raw)
	if err != nil {
		slog.Warn("synthesis output rejected", "error", err)
		return nil, err
	}
	return record, nil
}

// parseSynthesis extracts and validates the structured record from raw model
// output. Origin is always forced to web_search regardless of what the model
// emitted.
func parseSynthesis(raw string) (*model.ClaimRecord, error) {
	obj, ok := ExtractFirstJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, fmt.Errorf("parse synthesis JSON: %w", err)
	}
	for _, field := range requiredFields {
		if _, present := fields[field]; !present {
			return nil, fmt.Errorf("synthesis missing field %q", field)
		}
	}

	var record model.ClaimRecord
	if err := json.Unmarshal([]byte(obj), &record); err != nil {
		return nil, fmt.Errorf("decode synthesis record: %w", err)
	}

	record.EvidenceLevel = model.ParseEvidenceLevel(string(record.EvidenceLevel))
	record.Origin = model.OriginWebSearch
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid synthesis record: %w", err)
	}
	return &record, nil
}

// buildPrompt lays out the claim and per-source evidence, then pins down the
// exact JSON shape the model must answer with.
func buildPrompt(claim string, docs []model.EvidenceDocument) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Health claim to analyze: %s\n\n", claim)
	for i, doc := range docs {
		content := doc.Content
		if len(content) > maxDocChars {
			content = content[:maxDocChars]
		}
		fmt.Fprintf(&b, "Source %d - %s\n", i+1, doc.Title)
		fmt.Fprintf(&b, "URL: %s\n", doc.Link)
		fmt.Fprintf(&b, "Content: %s\n\n", content)
	}

	return fmt.Sprintf(
		"You are an expert medical researcher analyzing health claims. Based on the following information from "+
			"reputable medical sources, analyze this health claim: '%s'\n\n"+
			"Structure your response in JSON format with the following fields:\n"+
			"1. claim: Restate the health claim clearly\n"+
			"2. evidence_level: Categorize as 'High', 'Medium', or 'Low' based on scientific consensus\n"+
			"3. explanation: Provide a detailed, evidence-based explanation about the claim's validity\n"+
			"4. sources: List the key sources with name and URL\n\n"+
			"Source information:\n%s\n"+
			"Output ONLY valid JSON with no additional text. Format:\n"+
			"{\n"+
			"  \"claim\": \"...\",\n"+
			"  \"evidence_level\": \"...\",\n"+
			"  \"explanation\": \"...\",\n"+
			"  \"sources\": [\n"+
			"    {\"name\": \"...\", \"url\": \"...\"}\n"+
			"  ]\n"+
			"}",
		claim, b.String())
}
