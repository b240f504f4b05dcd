package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medclarify/medclarify/internal/llm"
	"github.com/medclarify/medclarify/internal/model"
)

// DefaultTopK is the number of results a search returns when the caller
// passes a non-positive topK.
const DefaultTopK = 5

// Store is the semantic store of verified claim records. It derives a
// vector embedding from each record's claim text and explanation, writes
// the embedding/metadata pair atomically to the index, and answers
// similarity searches against it.
//
// Search never returns an error: an unreachable index or embedder degrades
// to an empty result set (logged), because the orchestrator has a defined
// fallback for empty results.
type Store struct {
	embedder llm.Embedder
	index    Index
}

// New creates a semantic store over the given embedder and index
func New(embedder llm.Embedder, index Index) *Store {
	return &Store{
		embedder: embedder,
		index:    index,
	}
}

// embedText is the fixed text-to-embed derivation for a record. Searches
// against the same text always produce the same vector, so repeated claim
// text yields a deterministic relevance computation.
func embedText(record model.ClaimRecord) string {
	return record.ClaimText + " " + record.Explanation
}

// Search returns up to topK stored records ranked by relevance to the
// query, highest first. Transient failures yield an empty slice.
func (s *Store) Search(ctx context.Context, query string, topK int) []model.SearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("semantic store unavailable: embed query failed", "error", err)
		return []model.SearchResult{}
	}

	matches, err := s.index.Query(ctx, vector, topK)
	if err != nil {
		slog.Warn("semantic store unavailable: index query failed", "error", err)
		return []model.SearchResult{}
	}

	results := make([]model.SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, model.SearchResult{
			Record:         match.Record,
			RelevanceScore: match.Score,
		})
	}
	return results
}

// Upsert validates and persists a claim record, returning whether
// persistence succeeded. The embedding/metadata pair is written in a single
// index call; there is no partial write.
func (s *Store) Upsert(ctx context.Context, record model.ClaimRecord) bool {
	if err := record.Validate(); err != nil {
		slog.Warn("rejecting malformed claim record", "error", err)
		return false
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	vector, err := s.embedder.Embed(ctx, embedText(record))
	if err != nil {
		slog.Warn("upsert failed: embed record failed", "error", err)
		return false
	}

	id := uuid.New().String()
	if err := s.index.Upsert(ctx, id, vector, record); err != nil {
		slog.Warn("upsert failed: index write failed", "error", err)
		return false
	}

	slog.Info("added claim record to semantic store", "claim", record.ClaimText, "origin", record.Origin)
	return true
}
