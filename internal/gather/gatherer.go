package gather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/medclarify/medclarify/internal/cache"
	"github.com/medclarify/medclarify/internal/model"
	"github.com/medclarify/medclarify/internal/util"
	"github.com/medclarify/medclarify/internal/worker"
)

// maxDocuments is how many trusted pages are fetched and extracted per claim
const maxDocuments = 3

// pageCacheTTL is how long extracted page content stays cached
const pageCacheTTL = 24 * time.Hour

// Gatherer turns a health claim into a small set of evidence documents from
// allow-listed institutional sources. Every failure is per-link: a page that
// cannot be fetched or yields no content is skipped, never fatal.
type Gatherer struct {
	provider     SearchProvider
	trust        *TrustList
	robots       *util.RobotsChecker
	limiter      *worker.Limiter
	pages        cache.Cache
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
	fetchWorkers int
}

// NewGatherer creates a gatherer from the configured search provider and
// optional page cache. pages may be nil to disable caching.
func NewGatherer(provider SearchProvider, pages cache.Cache, searchCfg model.SearchConfig, httpCfg model.HTTPConfig, fetchWorkers int) *Gatherer {
	timeout := httpCfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxBody := httpCfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 2_000_000
	}
	if fetchWorkers <= 0 {
		fetchWorkers = maxDocuments
	}

	return &Gatherer{
		provider: provider,
		trust:    NewTrustList(searchCfg.TrustedDomains),
		robots:   util.NewRobotsChecker(httpCfg.UserAgent, timeout),
		limiter:  worker.NewLimiter(1, 2),
		pages:    pages,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
		userAgent:    httpCfg.UserAgent,
		maxBodyBytes: maxBody,
		fetchWorkers: fetchWorkers,
	}
}

// Fetch searches the web for evidence on the claim and returns extracted
// content from the top trusted results, preserving search ranking order.
// It degrades to an empty slice when search fails or no trusted source has
// usable content.
func (g *Gatherer) Fetch(ctx context.Context, claim string) []model.EvidenceDocument {
	query := "health claim " + claim + " evidence research"

	results, err := g.provider.Search(ctx, query)
	if err != nil {
		slog.Warn("web search failed", "error", err)
		return nil
	}

	candidates := g.selectTrusted(results)
	if len(candidates) == 0 {
		slog.Info("no trusted sources in search results", "results", len(results))
		return nil
	}

	// Extract concurrently but keep ranking order via indexed slots
	docs := make([]model.EvidenceDocument, len(candidates))
	sem := make(chan struct{}, g.fetchWorkers)
	var wg sync.WaitGroup

	for i, result := range candidates {
		wg.Add(1)
		go func(i int, result model.OrganicResult) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			content, err := g.fetchArticle(ctx, result.Link)
			if err != nil {
				slog.Warn("skipping source", "url", result.Link, "error", err)
				return
			}
			docs[i] = model.EvidenceDocument{
				Title:   result.Title,
				Link:    result.Link,
				Content: content,
			}
		}(i, result)
	}
	wg.Wait()

	gathered := make([]model.EvidenceDocument, 0, len(docs))
	for _, doc := range docs {
		if doc.Content != "" {
			gathered = append(gathered, doc)
		}
	}
	return gathered
}

// selectTrusted filters results down to allow-listed domains, one result per
// host, capped at maxDocuments, in provider order.
func (g *Gatherer) selectTrusted(results []model.OrganicResult) []model.OrganicResult {
	seen := make(map[string]bool)
	var selected []model.OrganicResult

	for _, result := range results {
		if result.Link == "" || !g.trust.Allows(result.Link) {
			continue
		}

		parsed, err := url.Parse(result.Link)
		if err != nil {
			continue
		}
		host := strings.ToLower(parsed.Hostname())
		if seen[host] {
			continue
		}
		seen[host] = true

		selected = append(selected, result)
		if len(selected) == maxDocuments {
			break
		}
	}
	return selected
}

// fetchArticle downloads one page and extracts its article content, going
// through the page cache, per-domain rate limiter and robots.txt check.
func (g *Gatherer) fetchArticle(ctx context.Context, link string) (string, error) {
	key := cache.PageKey(link)
	if g.pages != nil {
		if cached, ok := g.pages.Get(key); ok {
			return string(cached), nil
		}
	}

	if err := g.limiter.Wait(ctx, link); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	allowed, crawlDelay, err := g.robots.CanFetch(ctx, link)
	if err != nil {
		return "", fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return "", fmt.Errorf("disallowed by robots.txt")
	}
	if crawlDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(crawlDelay):
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	content := ExtractContent(string(body))
	if content == "" {
		return "", fmt.Errorf("no extractable content")
	}

	if g.pages != nil {
		if err := g.pages.Set(key, []byte(content), pageCacheTTL); err != nil {
			slog.Warn("page cache write failed", "url", link, "error", err)
		}
	}
	return content, nil
}
