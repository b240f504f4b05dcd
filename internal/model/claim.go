package model

import (
	"fmt"
	"time"
)

// EvidenceLevel is the coarse strength of scientific support behind a claim.
type EvidenceLevel string

const (
	EvidenceHigh   EvidenceLevel = "High"
	EvidenceMedium EvidenceLevel = "Medium"
	EvidenceLow    EvidenceLevel = "Low"
)

// Origin tracks where a stored claim record came from.
type Origin string

const (
	OriginCurated   Origin = "curated"    // Seed dataset loaded at bootstrap
	OriginWebSearch Origin = "web_search" // Synthesized from live web evidence
)

// Source is a single provenance entry attached to a claim record.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ClaimRecord is the unit of verified health knowledge stored in the
// semantic store and retrieved as evidence.
type ClaimRecord struct {
	ClaimText     string        `json:"claim"`
	EvidenceLevel EvidenceLevel `json:"evidence_level"`
	Explanation   string        `json:"explanation"`
	Sources       []Source      `json:"sources"`
	Origin        Origin        `json:"origin,omitempty"`
	CreatedAt     time.Time     `json:"created_at,omitempty"`
}

// Validate checks the record invariants enforced at the store boundary:
// claim text, evidence level and explanation must be non-empty. Sources may
// be empty but are normalized to a non-nil slice.
func (r *ClaimRecord) Validate() error {
	if r.ClaimText == "" {
		return fmt.Errorf("claim record: empty claim text")
	}
	if r.EvidenceLevel == "" {
		return fmt.Errorf("claim record: empty evidence level")
	}
	if r.Explanation == "" {
		return fmt.Errorf("claim record: empty explanation")
	}
	if r.Sources == nil {
		r.Sources = []Source{}
	}
	return nil
}

// ParseEvidenceLevel normalizes a free-form level string from the LLM into
// one of the three supported levels. Unrecognized values pass through
// unchanged so the store boundary can reject them explicitly.
func ParseEvidenceLevel(s string) EvidenceLevel {
	switch s {
	case "High", "high", "HIGH":
		return EvidenceHigh
	case "Medium", "medium", "MEDIUM", "Moderate", "moderate":
		return EvidenceMedium
	case "Low", "low", "LOW":
		return EvidenceLow
	default:
		return EvidenceLevel(s)
	}
}
