package synth

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/medclarify/medclarify/internal/model"
)

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeGenerator) IsAvailable(ctx context.Context) bool { return true }

func testDocs() []model.EvidenceDocument {
	return []model.EvidenceDocument{
		{Title: "NIH garlic study", Link: "https://nih.gov/garlic", Content: "trial content"},
		{Title: "Mayo overview", Link: "https://mayoclinic.org/garlic", Content: "review content"},
	}
}

const validResponse = `Here is my analysis:
{
  "claim": "Garlic lowers blood pressure",
  "evidence_level": "Medium",
  "explanation": "Several small trials show a modest reduction in systolic pressure.",
  "sources": [
    {"name": "NIH garlic study", "url": "https://nih.gov/garlic"}
  ]
}`

func TestSynthesizer_SynthesizeValidResponse(t *testing.T) {
	gen := &fakeGenerator{response: validResponse}
	s := NewSynthesizer(gen, 0)

	record, err := s.Synthesize(context.Background(), "garlic lowers blood pressure", testDocs())
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a record, got nil")
	}

	if record.ClaimText != "Garlic lowers blood pressure" {
		t.Errorf("Got claim %q", record.ClaimText)
	}
	if record.EvidenceLevel != model.EvidenceMedium {
		t.Errorf("Got evidence level %q, want %q", record.EvidenceLevel, model.EvidenceMedium)
	}
	if record.Origin != model.OriginWebSearch {
		t.Errorf("Got origin %q, want %q", record.Origin, model.OriginWebSearch)
	}
	if len(record.Sources) != 1 || record.Sources[0].URL != "https://nih.gov/garlic" {
		t.Errorf("Unexpected sources: %+v", record.Sources)
	}
}

func TestSynthesizer_ForcesWebSearchOrigin(t *testing.T) {
	response := strings.Replace(validResponse, `"sources": [`,
		`"origin": "curated", "sources": [`, 1)
	s := NewSynthesizer(&fakeGenerator{response: response}, 0)

	record, err := s.Synthesize(context.Background(), "garlic", testDocs())
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if record.Origin != model.OriginWebSearch {
		t.Errorf("Expected forced web_search origin, got %q", record.Origin)
	}
}

func TestSynthesizer_PromptIncludesEvidence(t *testing.T) {
	gen := &fakeGenerator{response: validResponse}
	s := NewSynthesizer(gen, 0)

	if _, err := s.Synthesize(context.Background(), "garlic lowers blood pressure", testDocs()); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	for _, want := range []string{
		"garlic lowers blood pressure",
		"Source 1 - NIH garlic study",
		"https://mayoclinic.org/garlic",
		"trial content",
	} {
		if !strings.Contains(gen.lastPrompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestSynthesizer_TruncatesLongDocuments(t *testing.T) {
	gen := &fakeGenerator{response: validResponse}
	s := NewSynthesizer(gen, 0)

	docs := []model.EvidenceDocument{{
		Title:   "long",
		Link:    "https://nih.gov/long",
		Content: strings.Repeat("x", maxDocChars+500),
	}}
	if _, err := s.Synthesize(context.Background(), "claim", docs); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if strings.Contains(gen.lastPrompt, strings.Repeat("x", maxDocChars+1)) {
		t.Error("Expected document content truncated in prompt")
	}
	if !strings.Contains(gen.lastPrompt, strings.Repeat("x", maxDocChars)) {
		t.Error("Expected truncated document content present in prompt")
	}
}

func TestSynthesizer_NilForEmptyDocuments(t *testing.T) {
	s := NewSynthesizer(&fakeGenerator{response: validResponse}, 0)

	record, err := s.Synthesize(context.Background(), "claim", nil)
	if err != nil {
		t.Fatalf("Expected no error for empty documents, got %v", err)
	}
	if record != nil {
		t.Errorf("Expected nil record for empty documents, got %+v", record)
	}
}

func TestSynthesizer_RejectsIncompleteJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"missing evidence_level", `{"claim": "c", "explanation": "e", "sources": []}`},
		{"missing sources", `{"claim": "c", "evidence_level": "High", "explanation": "e"}`},
		{"no JSON at all", "the claim is probably true"},
		{"malformed JSON", `{"claim": "c",`},
		{"empty explanation", `{"claim": "c", "evidence_level": "High", "explanation": "", "sources": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynthesizer(&fakeGenerator{response: tt.response}, 0)
			record, err := s.Synthesize(context.Background(), "claim", testDocs())
			if err == nil {
				t.Errorf("Expected error, got record %+v", record)
			}
		})
	}
}

func TestSynthesizer_PropagatesGeneratorFailure(t *testing.T) {
	s := NewSynthesizer(&fakeGenerator{err: fmt.Errorf("model unavailable")}, 0)

	if _, err := s.Synthesize(context.Background(), "claim", testDocs()); err == nil {
		t.Error("Expected error when generator fails")
	}
}
