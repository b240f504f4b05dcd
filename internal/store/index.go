package store

import (
	"context"

	"github.com/medclarify/medclarify/internal/model"
)

// Match is a raw vector index hit: the stored record plus its similarity
// score in [0,1].
type Match struct {
	Record model.ClaimRecord
	Score  float64
}

// Index is the vector index backend consumed by the semantic store. A
// record's embedding and metadata are written in a single call so partial
// writes cannot occur.
type Index interface {
	// Upsert stores the vector/record pair under id, atomically.
	Upsert(ctx context.Context, id string, vector []float32, record model.ClaimRecord) error

	// Query returns up to topK matches ranked by similarity descending.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)
}
