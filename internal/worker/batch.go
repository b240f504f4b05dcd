package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/medclarify/medclarify/internal/verify"
)

// ClaimVerifier verifies a single health claim
type ClaimVerifier interface {
	Verify(ctx context.Context, claim string) verify.Outcome
}

// VerifyJob verifies one claim on the pool
type VerifyJob struct {
	Claim    string
	Verifier ClaimVerifier
}

// Execute runs the verification for the job's claim
func (j *VerifyJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &VerifyResult{Claim: j.Claim, Err: err}
	}
	return &VerifyResult{
		Claim:   j.Claim,
		Outcome: j.Verifier.Verify(ctx, j.Claim),
	}
}

// VerifyResult is the outcome of one batch claim
type VerifyResult struct {
	Claim   string
	Outcome verify.Outcome
	Err     error
}

// GetError returns the job error, nil for completed verifications
func (r *VerifyResult) GetError() error {
	return r.Err
}

// BatchProcessor verifies many claims concurrently
type BatchProcessor struct {
	verifier    ClaimVerifier
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given concurrency
func NewBatchProcessor(verifier ClaimVerifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessClaims verifies all claims and returns one result per claim, in
// completion order.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*VerifyResult {
	if len(claims) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, claim := range claims {
		pool.Submit(&VerifyJob{Claim: claim, Verifier: b.verifier})
	}

	results := pool.Wait()

	verifyResults := make([]*VerifyResult, len(results))
	for i, result := range results {
		verifyResults[i] = result.(*VerifyResult)
	}
	return verifyResults
}

// ProcessFile reads claims from a file and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*VerifyResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}
	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file, one per line. Blank lines and
// lines starting with # are skipped; duplicates are dropped keeping first
// occurrence.
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		claims = append(claims, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return claims, nil
}
