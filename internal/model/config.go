package model

import "time"

// Config is the full runtime configuration, injected into each component's
// constructor. There is no process-global client state.
type Config struct {
	Store       StoreConfig       `yaml:"store"`
	Search      SearchConfig      `yaml:"search"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	LLM         LLMConfig         `yaml:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// StoreConfig configures the semantic store.
type StoreConfig struct {
	Backend        string `yaml:"backend"`         // "memory" or "weaviate"
	WeaviateHost   string `yaml:"weaviate_host"`   // host:port
	WeaviateScheme string `yaml:"weaviate_scheme"` // "http" or "https"
	Class          string `yaml:"class"`           // Weaviate class name
	SeedPath       string `yaml:"seed_path"`       // Optional local seed dataset (JSON)
	TopK           int    `yaml:"top_k"`
}

// SearchConfig configures the external web search provider and the
// trusted-domain allow-list consumed by the gatherer.
type SearchConfig struct {
	Endpoint       string   `yaml:"endpoint"`
	APIKey         string   `yaml:"api_key"`
	Engine         string   `yaml:"engine"`
	Country        string   `yaml:"country"`
	MaxResults     int      `yaml:"max_results"`
	TrustedDomains []string `yaml:"trusted_domains"`
}

// HTTPConfig configures outbound HTTP behavior for article fetches.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// CacheConfig configures the page-fetch cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// LLMConfig configures the generation and embedding services.
type LLMConfig struct {
	Provider       string `yaml:"provider"` // "openai", "ollama", "" disables
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Timeout        int    `yaml:"timeout"` // seconds
	MaxTokens      int    `yaml:"max_tokens"`
}

// ConcurrencyConfig bounds the pipeline's internal parallelism.
type ConcurrencyConfig struct {
	FetchWorkers int `yaml:"fetch_workers"` // Concurrent article extractions
	BatchWorkers int `yaml:"batch_workers"` // Concurrent claim verifications in batch mode
}

// DefaultTrustedDomains is the fixed allow-list of institutional domains
// permitted as evidence sources. Externally configurable, never empty by
// default.
var DefaultTrustedDomains = []string{
	"nih.gov", "cdc.gov", "who.int", "mayoclinic.org", "harvard.edu",
	"hopkinsmedicine.org", "clevelandclinic.org", "healthline.com",
	"webmd.com", "health.harvard.edu", "medlineplus.gov", "ncbi.nlm.nih.gov",
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:        "memory",
			WeaviateHost:   "localhost:8080",
			WeaviateScheme: "http",
			Class:          "HealthClaim",
			TopK:           5,
		},
		Search: SearchConfig{
			Endpoint:       "https://serpapi.com/search",
			Engine:         "google",
			Country:        "us",
			MaxResults:     10,
			TrustedDomains: DefaultTrustedDomains,
		},
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "MedClarify/0.1 (+https://github.com/medclarify/medclarify)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:       "openai",
			EmbeddingModel: "text-embedding-3-small",
			Timeout:        30,
			MaxTokens:      1000,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers: 3,
			BatchWorkers: 4,
		},
	}
}
