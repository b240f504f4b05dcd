package worker

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/medclarify/medclarify/internal/model"
	"github.com/medclarify/medclarify/internal/verify"
)

type stubVerifier struct {
	calls atomic.Int64
}

func (s *stubVerifier) Verify(ctx context.Context, claim string) verify.Outcome {
	s.calls.Add(1)
	return verify.Outcome{
		Answer:   "answer for " + claim,
		Evidence: []model.SearchResult{},
	}
}

func TestBatchProcessor_ProcessClaims(t *testing.T) {
	verifier := &stubVerifier{}
	b := NewBatchProcessor(verifier, 3)

	claims := []string{
		"garlic lowers blood pressure",
		"vitamin c prevents colds",
		"honey soothes sore throats",
	}
	results := b.ProcessClaims(context.Background(), claims)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if verifier.calls.Load() != 3 {
		t.Errorf("Expected 3 verifications, got %d", verifier.calls.Load())
	}

	answered := make(map[string]string)
	for _, result := range results {
		if result.GetError() != nil {
			t.Errorf("Unexpected error for %q: %v", result.Claim, result.GetError())
		}
		answered[result.Claim] = result.Outcome.Answer
	}
	for _, claim := range claims {
		if answered[claim] != "answer for "+claim {
			t.Errorf("Missing or wrong answer for %q: %q", claim, answered[claim])
		}
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	b := NewBatchProcessor(&stubVerifier{}, 2)

	results := b.ProcessClaims(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty result slice, got %v", results)
	}
}

func TestReadClaimsFromFile(t *testing.T) {
	content := `garlic lowers blood pressure

# a comment line
vitamin c prevents colds
garlic lowers blood pressure
  honey soothes sore throats
`
	path := filepath.Join(t.TempDir(), "claims.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	claims, err := ReadClaimsFromFile(path)
	if err != nil {
		t.Fatalf("ReadClaimsFromFile failed: %v", err)
	}

	want := []string{
		"garlic lowers blood pressure",
		"vitamin c prevents colds",
		"honey soothes sore throats",
	}
	if len(claims) != len(want) {
		t.Fatalf("Got %d claims, want %d: %v", len(claims), len(want), claims)
	}
	for i := range want {
		if claims[i] != want[i] {
			t.Errorf("claims[%d] = %q, want %q", i, claims[i], want[i])
		}
	}
}

func TestReadClaimsFromFile_Missing(t *testing.T) {
	if _, err := ReadClaimsFromFile("/nonexistent/claims.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.txt")
	if err := os.WriteFile(path, []byte("claim one\nclaim two\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	b := NewBatchProcessor(&stubVerifier{}, 2)
	results, err := b.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}
}
