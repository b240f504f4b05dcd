package verify

import (
	"context"
	"log/slog"
	"sort"

	"github.com/medclarify/medclarify/internal/llm"
	"github.com/medclarify/medclarify/internal/model"
	"github.com/medclarify/medclarify/internal/store"
)

// RelevanceThreshold partitions stored matches into relevant and irrelevant.
// Only matches scoring strictly above it count as usable evidence; anything
// at or below triggers the web search path.
const RelevanceThreshold = 0.75

// FallbackAnswer is returned verbatim when answer generation fails
const FallbackAnswer = "I encountered a technical issue while analyzing this claim. Please try again later."

// SemanticStore is the slice of the store the orchestrator needs
type SemanticStore interface {
	Search(ctx context.Context, query string, topK int) []model.SearchResult
	Upsert(ctx context.Context, record model.ClaimRecord) bool
}

// EvidenceGatherer fetches web evidence for a claim
type EvidenceGatherer interface {
	Fetch(ctx context.Context, claim string) []model.EvidenceDocument
}

// Synthesizer condenses gathered documents into a claim record
type Synthesizer interface {
	Synthesize(ctx context.Context, claim string, docs []model.EvidenceDocument) (*model.ClaimRecord, error)
}

// Outcome is the result of verifying one claim
type Outcome struct {
	Answer          string               `json:"answer"`
	Evidence        []model.SearchResult `json:"evidence"`
	NewContentAdded bool                 `json:"new_content_added"`
}

// Orchestrator runs the retrieve-or-gather verification flow: answer from
// stored evidence when a relevant match exists, otherwise gather web
// evidence, synthesize it, persist the result and answer from that.
type Orchestrator struct {
	store     SemanticStore
	gatherer  EvidenceGatherer
	synth     Synthesizer
	generator llm.Generator
	topK      int
	maxTokens int
}

// NewOrchestrator wires the verification pipeline together
func NewOrchestrator(semantic SemanticStore, gatherer EvidenceGatherer, synth Synthesizer, generator llm.Generator, topK, maxTokens int) *Orchestrator {
	if topK <= 0 {
		topK = store.DefaultTopK
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	return &Orchestrator{
		store:     semantic,
		gatherer:  gatherer,
		synth:     synth,
		generator: generator,
		topK:      topK,
		maxTokens: maxTokens,
	}
}

// Verify answers a health claim. The store is consulted first; the web path
// runs only when no stored match clears the relevance threshold. A record
// synthesized from the web is persisted before answering, but a failed
// persist never suppresses the answer.
func (o *Orchestrator) Verify(ctx context.Context, claim string) Outcome {
	matches := o.store.Search(ctx, claim, o.topK)

	relevant := make([]model.SearchResult, 0, len(matches))
	for _, match := range matches {
		if match.RelevanceScore > RelevanceThreshold {
			relevant = append(relevant, match)
		}
	}

	if len(relevant) > 0 {
		slog.Info("answering from stored evidence", "claim", claim, "matches", len(relevant))
		evidence := rankEvidence(relevant, o.topK)
		return Outcome{
			Answer:   o.respond(ctx, claim, evidence),
			Evidence: evidence,
		}
	}

	slog.Info("no relevant stored evidence, gathering from web", "claim", claim)
	docs := o.gatherer.Fetch(ctx, claim)
	if len(docs) == 0 {
		slog.Info("no usable web evidence", "claim", claim)
		return Outcome{
			Answer:   o.respond(ctx, claim, nil),
			Evidence: []model.SearchResult{},
		}
	}

	record, err := o.synth.Synthesize(ctx, claim, docs)
	if err != nil || record == nil {
		if err != nil {
			slog.Warn("synthesis failed", "claim", claim, "error", err)
		}
		return Outcome{
			Answer:   o.respond(ctx, claim, nil),
			Evidence: []model.SearchResult{},
		}
	}

	added := o.store.Upsert(ctx, *record)
	if !added {
		slog.Warn("failed to persist synthesized claim", "claim", claim)
	}

	evidence := []model.SearchResult{{Record: *record}}
	return Outcome{
		Answer:          o.respond(ctx, claim, evidence),
		Evidence:        evidence,
		NewContentAdded: added,
	}
}

// respond generates the final answer from the claim and ranked evidence,
// degrading to the fallback answer when the model is unavailable.
func (o *Orchestrator) respond(ctx context.Context, claim string, evidence []model.SearchResult) string {
	if o.generator == nil {
		return FallbackAnswer
	}

	answer, err := o.generator.Complete(ctx, buildAnswerPrompt(claim, evidence), o.maxTokens)
	if err != nil {
		slog.Warn("answer generation failed", "claim", claim, "error", err)
		return FallbackAnswer
	}
	return answer
}

// rankEvidence sorts matches by descending relevance and caps them at topK
func rankEvidence(matches []model.SearchResult, topK int) []model.SearchResult {
	ranked := make([]model.SearchResult, len(matches))
	copy(ranked, matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
