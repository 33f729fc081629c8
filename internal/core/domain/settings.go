package domain

import "time"

const unknownDescription = "Unknown"

// IndexMode defines how the vector index is scoped across report runs.
type IndexMode string

// Available index modes.
const (
	// IndexModeFull clears one shared index before and after every report run.
	IndexModeFull IndexMode = "full"

	// IndexModeIncremental keeps one index per project and only embeds new chunks.
	IndexModeIncremental IndexMode = "incremental"
)

// IsValid returns true if the index mode is recognised.
func (m IndexMode) IsValid() bool {
	switch m {
	case IndexModeFull, IndexModeIncremental:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m IndexMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m IndexMode) Description() string {
	switch m {
	case IndexModeFull:
		return "Full (rebuild the index for every report)"
	case IndexModeIncremental:
		return "Incremental (per-project index, embed new chunks only)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderLocal is the in-process hashing embedder. Embeddings only.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderLocal:
		return "Hashing embedder (in-process)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RateLimit caps embedding requests per second. Zero means unlimited.
	RateLimit float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings controls how extracted text is split.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is how many characters consecutive chunks share.
	Overlap int
}

// IndexSettings controls vector index scoping and retrieval.
type IndexSettings struct {
	// Mode selects full rebuild or incremental per-project indexes.
	Mode IndexMode

	// TopK is how many chunks are retrieved per question.
	TopK int
}

// ReportSettings controls report generation.
type ReportSettings struct {
	// Timeout bounds one report generation run. Zero means no bound.
	Timeout time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Chunking holds text splitting settings.
	Chunking ChunkingSettings

	// Index holds vector index settings.
	Index IndexSettings

	// Report holds report generation settings.
	Report ReportSettings
}

// Defaults used when nothing is configured.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 80
	DefaultTopK         = 5
	DefaultOllamaURL    = "http://localhost:11434"
)

// DefaultAppSettings returns settings with sensible defaults.
// Both AI services point at a local Ollama instance.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
			BaseURL:  DefaultOllamaURL,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModels()[AIProviderOllama],
			BaseURL:  DefaultOllamaURL,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Index: IndexSettings{
			Mode: IndexModeFull,
			TopK: DefaultTopK,
		},
		Report: ReportSettings{
			Timeout: 10 * time.Minute,
		},
	}
}

// AllIndexModes returns all available index modes.
func AllIndexModes() []IndexMode {
	return []IndexMode{IndexModeFull, IndexModeIncremental}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderLocal,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderLocal:  "hashing-512",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "mistral",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// In-process
		"hashing-512": 512,
	}
}
