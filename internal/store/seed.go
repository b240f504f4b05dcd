package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/medclarify/medclarify/internal/model"
)

// seedBatchSize bounds how many seed records are reported per progress log
// line; each record is still written individually so one bad record never
// aborts its batch.
const seedBatchSize = 100

// seedFile is the on-disk layout of the curated seed dataset
type seedFile struct {
	HealthClaims []model.ClaimRecord `json:"health_claims"`
}

// Bootstrap loads the curated seed dataset into an empty store. It is a
// no-op when the index already holds records or when no seed file exists at
// seedPath. Individual record failures are logged and skipped.
func (s *Store) Bootstrap(ctx context.Context, seedPath string) error {
	if seedPath == "" {
		return nil
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if count > 0 {
		return nil
	}

	raw, err := os.ReadFile(seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	if len(seed.HealthClaims) == 0 {
		return nil
	}

	slog.Info("loading seed claims into semantic store", "count", len(seed.HealthClaims))

	loaded := 0
	for i, record := range seed.HealthClaims {
		if record.Origin == "" {
			record.Origin = model.OriginCurated
		}
		if s.Upsert(ctx, record) {
			loaded++
		} else {
			slog.Warn("skipping seed record", "index", i, "claim", record.ClaimText)
		}

		if (i+1)%seedBatchSize == 0 {
			slog.Info("seed progress", "loaded", loaded, "processed", i+1)
		}
	}

	slog.Info("seed load complete", "loaded", loaded, "total", len(seed.HealthClaims))
	return nil
}
