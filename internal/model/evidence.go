package model

// SearchResult is a claim record annotated with the similarity of the query
// to the stored record. Produced only by the semantic store's search
// operation, never persisted.
type SearchResult struct {
	Record         ClaimRecord `json:"record"`
	RelevanceScore float64     `json:"relevance_score"` // Cosine similarity in [0,1]
}

// EvidenceDocument is raw material gathered from the web before synthesis.
// Created by the gatherer, consumed immediately by the synthesizer, never
// persisted standalone.
type EvidenceDocument struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Content string `json:"content"`
}

// OrganicResult is a single ranked result from the external search provider.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
