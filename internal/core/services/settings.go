package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider  = "embedding.provider"
	KeyEmbedModel     = "embedding.model"
	KeyEmbedBaseURL   = "embedding.base_url"
	KeyEmbedAPIKey    = "embedding.api_key"
	KeyEmbedRateLimit = "embedding.rate_limit"
	KeyLLMProvider    = "llm.provider"
	KeyLLMModel       = "llm.model"
	KeyLLMBaseURL     = "llm.base_url"
	KeyLLMAPIKey      = "llm.api_key"
	KeyChunkSize      = "chunking.size"
	KeyChunkOverlap   = "chunking.overlap"
	KeyIndexMode      = "index.mode"
	KeyIndexTopK      = "index.top_k"
	KeyReportTimeout  = "report.timeout"
)

// SettingsKeys lists every key accepted by Set, in display order.
func SettingsKeys() []string {
	return []string{
		KeyEmbedProvider, KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyEmbedRateLimit,
		KeyLLMProvider, KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey,
		KeyChunkSize, KeyChunkOverlap,
		KeyIndexMode, KeyIndexTopK,
		KeyReportTimeout,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings, filling gaps with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	embedProvider := s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider)
	llmProvider := s.getProvider(KeyLLMProvider, defaults.LLM.Provider)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:  embedProvider,
			Model:     s.getString(KeyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:   baseURLFor(embedProvider, s.configStore.GetString(KeyEmbedBaseURL)),
			APIKey:    s.configStore.GetString(KeyEmbedAPIKey),
			RateLimit: s.configStore.GetFloat(KeyEmbedRateLimit),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(KeyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:  baseURLFor(llmProvider, s.configStore.GetString(KeyLLMBaseURL)),
			APIKey:   s.configStore.GetString(KeyLLMAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(KeyChunkSize, defaults.Chunking.Size),
			Overlap: s.getIntAllowZero(KeyChunkOverlap, defaults.Chunking.Overlap),
		},
		Index: domain.IndexSettings{
			Mode: s.getIndexMode(defaults.Index.Mode),
			TopK: s.getInt(KeyIndexTopK, defaults.Index.TopK),
		},
		Report: domain.ReportSettings{
			Timeout: s.getDuration(KeyReportTimeout, defaults.Report.Timeout),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedRateLimit, settings.Embedding.RateLimit},
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyChunkSize, settings.Chunking.Size},
		{KeyChunkOverlap, settings.Chunking.Overlap},
		{KeyIndexMode, settings.Index.Mode.String()},
		{KeyIndexTopK, settings.Index.TopK},
		{KeyReportTimeout, settings.Report.Timeout.String()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// API keys are only written when present so they are never blanked by accident
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(KeyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyEmbedAPIKey, err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyLLMAPIKey, err)
		}
	}

	return nil
}

// Set updates one setting by its config key.
//
//nolint:gocyclo // One case per supported key
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyEmbedProvider:
		return s.SetEmbeddingProvider(domain.AIProvider(value), "", settings.Embedding.APIKey)
	case KeyLLMProvider:
		return s.SetLLMProvider(domain.AIProvider(value), "", settings.LLM.APIKey)
	case KeyEmbedModel:
		settings.Embedding.Model = value
	case KeyEmbedBaseURL:
		settings.Embedding.BaseURL = value
	case KeyEmbedAPIKey:
		settings.Embedding.APIKey = value
	case KeyLLMModel:
		settings.LLM.Model = value
	case KeyLLMBaseURL:
		settings.LLM.BaseURL = value
	case KeyLLMAPIKey:
		settings.LLM.APIKey = value
	case KeyEmbedRateLimit:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		settings.Embedding.RateLimit = rate
	case KeyChunkSize:
		size, err := strconv.Atoi(value)
		if err != nil || size <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		settings.Chunking.Size = size
	case KeyChunkOverlap:
		overlap, err := strconv.Atoi(value)
		if err != nil || overlap < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		settings.Chunking.Overlap = overlap
	case KeyIndexMode:
		mode := domain.IndexMode(value)
		if !mode.IsValid() {
			return fmt.Errorf("%w: invalid index mode %q", domain.ErrInvalidInput, value)
		}
		settings.Index.Mode = mode
	case KeyIndexTopK:
		k, err := strconv.Atoi(value)
		if err != nil || k <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		settings.Index.TopK = k
	case KeyReportTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s must be a duration such as 5m", domain.ErrInvalidInput, key)
		}
		settings.Report.Timeout = d
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !containsProvider(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if !containsProvider(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support text generation", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks the current settings are usable for report generation.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrLLMUnavailable, settings.LLM.Provider)
	}
	if settings.Chunking.Overlap >= settings.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, settings.Chunking.Overlap, settings.Chunking.Size)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getIndexMode(defaultVal domain.IndexMode) domain.IndexMode {
	mode := domain.IndexMode(s.configStore.GetString(KeyIndexMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func containsProvider(providers []domain.AIProvider, p domain.AIProvider) bool {
	for _, candidate := range providers {
		if candidate == p {
			return true
		}
	}
	return false
}

func modelOrDefault(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}

// baseURLFor keeps a custom URL for Ollama, defaulting it when unset, and
// clears it for every other provider.
func baseURLFor(provider domain.AIProvider, current string) string {
	if provider != domain.AIProviderOllama {
		return ""
	}
	if current == "" {
		return domain.DefaultOllamaURL
	}
	return current
}
