package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/medclarify/medclarify/internal/cache"
	"github.com/medclarify/medclarify/internal/gather"
	"github.com/medclarify/medclarify/internal/llm"
	"github.com/medclarify/medclarify/internal/model"
	"github.com/medclarify/medclarify/internal/store"
	"github.com/medclarify/medclarify/internal/synth"
	"github.com/medclarify/medclarify/internal/verify"
)

// loadConfig builds the effective configuration: defaults, then the config
// file located by viper, then API keys from the environment.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		raw, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if key := os.Getenv("SERPAPI_KEY"); key != "" {
		cfg.Search.APIKey = key
	}
	return cfg, nil
}

// resolveAPIKey fills the LLM API key from the environment for the selected
// provider. Ollama needs no key, only an optional base URL.
func resolveAPIKey(cfg *model.Config) error {
	if cfg.LLM.APIKey != "" {
		return nil
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// newPageCache builds the article page cache per configuration. Returns nil
// when caching is disabled.
func newPageCache(cfg model.CacheConfig) cache.Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir != "" {
		return cache.NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
	}
	return cache.NewMemoryCache(cfg.MemoryTTL, cfg.MemoryTTL)
}

// newIndex builds the vector index for the configured backend
func newIndex(cfg model.StoreConfig) (store.Index, error) {
	switch cfg.Backend {
	case "weaviate":
		return store.NewWeaviateIndex(cfg.WeaviateScheme, cfg.WeaviateHost, cfg.Class)
	case "", "memory":
		return store.NewMemoryIndex(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s (supported: memory, weaviate)", cfg.Backend)
	}
}

// newOrchestrator assembles the full verification pipeline from config
func newOrchestrator(ctx context.Context, cfg *model.Config) (*verify.Orchestrator, error) {
	if err := resolveAPIKey(cfg); err != nil {
		return nil, err
	}

	llmCfg := llm.ConfigFromModel(cfg.LLM, cfg.HTTP)

	generator, err := llm.NewGenerator(llmCfg)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	// Anthropic has no embedding API; embeddings go through OpenAI when a
	// key is available.
	embCfg := llmCfg
	if p := strings.ToLower(cfg.LLM.Provider); p == "anthropic" || p == "claude" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			embCfg.APIKey = key
		}
	}
	embedder, err := llm.NewEmbedder(embCfg)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	if embedder == nil {
		return nil, fmt.Errorf("an embedding provider is required (set llm.provider)")
	}

	index, err := newIndex(cfg.Store)
	if err != nil {
		return nil, err
	}

	st := store.New(embedder, index)
	if err := st.Bootstrap(ctx, cfg.Store.SeedPath); err != nil {
		return nil, fmt.Errorf("bootstrap store: %w", err)
	}

	provider := gather.NewSerpProvider(cfg.Search, cfg.HTTP)
	gatherer := gather.NewGatherer(provider, newPageCache(cfg.Cache), cfg.Search, cfg.HTTP, cfg.Concurrency.FetchWorkers)
	synthesizer := synth.NewSynthesizer(generator, cfg.LLM.MaxTokens)

	return verify.NewOrchestrator(st, gatherer, synthesizer, generator, cfg.Store.TopK, cfg.LLM.MaxTokens), nil
}
