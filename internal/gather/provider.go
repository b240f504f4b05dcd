package gather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/medclarify/medclarify/internal/model"
	"github.com/medclarify/medclarify/internal/util"
)

// SearchProvider returns ranked organic results for a query
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]model.OrganicResult, error)
}

// SerpProvider queries a SerpAPI-compatible endpoint for organic Google
// results.
type SerpProvider struct {
	endpoint   string
	apiKey     string
	engine     string
	country    string
	maxResults int
	httpClient *http.Client
}

// NewSerpProvider creates a search provider against the configured endpoint
func NewSerpProvider(cfg model.SearchConfig, httpCfg model.HTTPConfig) *SerpProvider {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	engine := cfg.Engine
	if engine == "" {
		engine = "google"
	}

	timeout := httpCfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &SerpProvider{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		engine:     engine,
		country:    cfg.Country,
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
	}
}

type serpResponse struct {
	OrganicResults []model.OrganicResult `json:"organic_results"`
}

// Search submits the query and returns organic results in provider order
func (p *SerpProvider) Search(ctx context.Context, query string) ([]model.OrganicResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", p.apiKey)
	params.Set("engine", p.engine)
	params.Set("num", fmt.Sprintf("%d", p.maxResults))
	if p.country != "" {
		params.Set("gl", p.country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed serpResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return parsed.OrganicResults, nil
}
