package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/medclarify/medclarify/internal/model"
)

// fakeEmbedder derives a small deterministic vector from the text bytes.
// Identical text always yields identical vectors.
type fakeEmbedder struct {
	fail bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, fmt.Errorf("embedding service down")
	}

	vec := make([]float32, 4)
	for i, b := range []byte(text) {
		vec[i%4] += float32(b)
	}
	return vec, nil
}

// failingIndex simulates an unreachable vector backend
type failingIndex struct{}

func (failingIndex) Upsert(ctx context.Context, id string, vector []float32, record model.ClaimRecord) error {
	return fmt.Errorf("index unreachable")
}

func (failingIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	return nil, fmt.Errorf("index unreachable")
}

func (failingIndex) Count(ctx context.Context) (int64, error) {
	return 0, fmt.Errorf("index unreachable")
}

func TestFakeEmbedder_Deterministic(t *testing.T) {
	emb := &fakeEmbedder{}
	a, err := emb.Embed(context.Background(), "Vitamin C prevents the common cold")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := emb.Embed(context.Background(), "Vitamin C prevents the common cold")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Expected identical vectors for identical text, diverged at %d", i)
		}
	}
}

func TestStore_SearchReturnsStoredRecord(t *testing.T) {
	ctx := context.Background()
	s := New(&fakeEmbedder{}, NewMemoryIndex())

	record := testRecord("Garlic lowers blood pressure")
	if !s.Upsert(ctx, record) {
		t.Fatal("Upsert failed")
	}

	results := s.Search(ctx, embedText(record), 5)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Record.ClaimText != record.ClaimText {
		t.Errorf("Got claim %q, want %q", results[0].Record.ClaimText, record.ClaimText)
	}
	if results[0].RelevanceScore < 0.99 {
		t.Errorf("Expected near-perfect score for identical text, got %f", results[0].RelevanceScore)
	}
}

func TestStore_SearchIdenticalQueriesScoreIdentically(t *testing.T) {
	ctx := context.Background()
	s := New(&fakeEmbedder{}, NewMemoryIndex())

	if !s.Upsert(ctx, testRecord("Honey soothes a sore throat")) {
		t.Fatal("Upsert failed")
	}

	first := s.Search(ctx, "does honey help a sore throat", 5)
	second := s.Search(ctx, "does honey help a sore throat", 5)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected 1 result each, got %d and %d", len(first), len(second))
	}
	if first[0].RelevanceScore != second[0].RelevanceScore {
		t.Errorf("Identical queries scored differently: %f vs %f",
			first[0].RelevanceScore, second[0].RelevanceScore)
	}
}

func TestStore_SearchDegradesToEmptyOnEmbedderFailure(t *testing.T) {
	s := New(&fakeEmbedder{fail: true}, NewMemoryIndex())

	results := s.Search(context.Background(), "anything", 5)
	if results == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestStore_SearchDegradesToEmptyOnIndexFailure(t *testing.T) {
	s := New(&fakeEmbedder{}, failingIndex{})

	results := s.Search(context.Background(), "anything", 5)
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestStore_UpsertRejectsMalformedRecord(t *testing.T) {
	s := New(&fakeEmbedder{}, NewMemoryIndex())

	record := model.ClaimRecord{ClaimText: "claim only"}
	if s.Upsert(context.Background(), record) {
		t.Error("Expected Upsert to reject a record without level/explanation")
	}
}

func TestStore_UpsertReportsIndexFailure(t *testing.T) {
	s := New(&fakeEmbedder{}, failingIndex{})

	if s.Upsert(context.Background(), testRecord("claim")) {
		t.Error("Expected Upsert to return false when the index write fails")
	}
}

func writeSeedFile(t *testing.T, records []model.ClaimRecord) string {
	t.Helper()

	payload, err := json.Marshal(map[string][]model.ClaimRecord{"health_claims": records})
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "healthfc.json")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestStore_BootstrapLoadsSeedIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	s := New(&fakeEmbedder{}, idx)

	seed := []model.ClaimRecord{
		testRecord("claim one"),
		testRecord("claim two"),
		{ClaimText: "malformed, no explanation"},
		testRecord("claim three"),
	}

	if err := s.Bootstrap(ctx, writeSeedFile(t, seed)); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	count, err := idx.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	// The malformed record is skipped, the rest load
	if count != 3 {
		t.Errorf("Expected 3 records loaded, got %d", count)
	}
}

func TestStore_BootstrapSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	s := New(&fakeEmbedder{}, idx)

	if !s.Upsert(ctx, testRecord("existing")) {
		t.Fatal("Upsert failed")
	}

	if err := s.Bootstrap(ctx, writeSeedFile(t, []model.ClaimRecord{testRecord("seed")})); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	count, _ := idx.Count(ctx)
	if count != 1 {
		t.Errorf("Expected bootstrap to be a no-op on non-empty store, count = %d", count)
	}
}

func TestStore_BootstrapMissingFileIsNoop(t *testing.T) {
	s := New(&fakeEmbedder{}, NewMemoryIndex())

	if err := s.Bootstrap(context.Background(), "/nonexistent/healthfc.json"); err != nil {
		t.Errorf("Expected missing seed file to be a no-op, got error: %v", err)
	}
}

func TestStore_BootstrapSetsCuratedOrigin(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	s := New(&fakeEmbedder{}, idx)

	if err := s.Bootstrap(ctx, writeSeedFile(t, []model.ClaimRecord{testRecord("seeded")})); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	matches, err := idx.Query(ctx, mustEmbed(t, "seeded explanation for seeded"), 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].Record.Origin != model.OriginCurated {
		t.Errorf("Expected curated origin, got %q", matches[0].Record.Origin)
	}
}

func mustEmbed(t *testing.T, text string) []float32 {
	t.Helper()
	vec, err := (&fakeEmbedder{}).Embed(context.Background(), text)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	return vec
}
