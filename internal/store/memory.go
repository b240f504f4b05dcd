package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/medclarify/medclarify/internal/model"
)

// MemoryIndex is an in-process vector index using cosine similarity. It is
// safe for concurrent search and upsert; records are independently keyed so
// no cross-request locking beyond the map mutex is needed.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	vector []float32
	record model.ClaimRecord
}

// NewMemoryIndex creates an empty in-memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: make(map[string]memoryEntry),
	}
}

// Upsert stores the vector/record pair under id
func (m *MemoryIndex) Upsert(ctx context.Context, id string, vector []float32, record model.ClaimRecord) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector for id %s", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{vector: vector, record: record}
	return nil
}

// Query returns up to topK matches ranked by cosine similarity descending
func (m *MemoryIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	m.mu.RLock()
	matches := make([]Match, 0, len(m.entries))
	for _, entry := range m.entries {
		score := cosineSimilarity(vector, entry.vector)
		matches = append(matches, Match{Record: entry.record, Score: score})
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Count returns the number of stored records
func (m *MemoryIndex) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries)), nil
}

// cosineSimilarity computes the cosine of the angle between two vectors,
// clamped to [0,1]. Vectors of mismatched or zero length score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
