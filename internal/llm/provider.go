package llm

import "context"

// Generator defines the interface for text-generation providers. The model
// is treated as an opaque text-completion service; callers own the prompt.
type Generator interface {
	// Name returns the provider name
	Name() string

	// Complete generates text for the given prompt, bounded by maxTokens.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Embedder converts text into a fixed-length vector. Implementations must be
// deterministic for identical input: the store relies on repeated claim text
// producing the same relevance computation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// EmbeddingModel name for the embedding endpoint
	EmbeddingModel string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation when the caller passes 0
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "",
		Model:          "",
		EmbeddingModel: "text-embedding-3-small",
		Timeout:        30,
		MaxTokens:      1000,
	}
}
