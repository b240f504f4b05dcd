package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_DefaultsBurst(t *testing.T) {
	limiter := NewLimiter(10, -1)
	if limiter.defaultBurst != 5 {
		t.Errorf("Expected default burst 5 for negative input, got %d", limiter.defaultBurst)
	}
}

func TestLimiter_AllowsWithinBudget(t *testing.T) {
	limiter := NewLimiter(100, 5)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, "https://nih.gov/article"); err != nil {
			t.Fatalf("Wait %d failed: %v", i, err)
		}
	}
}

func TestLimiter_DomainsAreIndependent(t *testing.T) {
	// Burst 1 at a very slow rate: one request per domain passes
	// immediately, a second on the same domain would block.
	limiter := NewLimiter(0.001, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "https://nih.gov/a"); err != nil {
		t.Fatalf("First domain blocked: %v", err)
	}
	if err := limiter.Wait(ctx, "https://cdc.gov/b"); err != nil {
		t.Fatalf("Second domain blocked: %v", err)
	}
	if err := limiter.Wait(ctx, "https://nih.gov/c"); err == nil {
		t.Error("Expected second request to a drained domain to time out")
	}
}

func TestLimiter_RejectsUnparseableURL(t *testing.T) {
	limiter := NewLimiter(10, 5)

	if err := limiter.Wait(context.Background(), "://bad url"); err == nil {
		t.Error("Expected error for unparseable URL")
	}
}
