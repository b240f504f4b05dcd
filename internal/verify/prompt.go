package verify

import (
	"fmt"
	"strings"

	"github.com/medclarify/medclarify/internal/model"
)

const systemPrompt = "You are MedClarify, an expert-level medical claim verification assistant. " +
	"Your job is to evaluate health-related claims using only the specific evidence provided. " +
	"You respond with clear, structured, and scientifically grounded analysis. " +
	"Do not include personal opinions, and do not introduce information that is not explicitly in the provided sources. " +
	"Be transparent and concise in your assessments."

// buildAnswerPrompt assembles the full prompt for answering a claim from
// ranked evidence. With no evidence the model is told to give a general
// assessment instead.
func buildAnswerPrompt(claim string, evidence []model.SearchResult) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Analyze the following health claim: %q\n\n", claim)
	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString("1. ONLY reference the specific evidence items provided below\n")
	b.WriteString("2. DO NOT create or generate your own evidence items\n")
	b.WriteString("3. If an evidence item has low relevance, you can mention that it's not strongly related\n")
	b.WriteString("4. Consider whether the claim appears to be supported by evidence\n")
	b.WriteString("5. Analyse the claim's validity based on the evidence\n\n")

	if len(evidence) == 0 {
		b.WriteString("No directly relevant evidence was found in our database. Provide a general assessment based on established medical knowledge.\n")
		return b.String()
	}

	b.WriteString("Retrieved Evidence:\n")
	b.WriteString("Retrieved medical evidence (ONLY USE THESE SPECIFIC EVIDENCE ITEMS):\n\n")
	for i, item := range evidence {
		fmt.Fprintf(&b, "Evidence #%d (Relevance: %.2f):\n", i+1, item.RelevanceScore)
		fmt.Fprintf(&b, "Claim: %s\n", item.Record.ClaimText)
		fmt.Fprintf(&b, "Evidence Level: %s\n", item.Record.EvidenceLevel)
		fmt.Fprintf(&b, "Explanation: %s\n\n", item.Record.Explanation)
	}
	return b.String()
}
