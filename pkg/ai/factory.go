package ai

import (
	"fmt"

	"go.uber.org/zap"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType

	GeminiAPIKey string

	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"

	OpenAIAPIKey string
	OpenAIModel  string
}

// NewExtractorService creates an ExtractorService based on the config.
// This is the factory function - switch AI provider by changing config.Provider.
// ProviderAuto picks the best configured cloud provider and uses Ollama as the
// local fallback.
func NewExtractorService(cfg Config, logger *zap.Logger) (ExtractorService, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiService(cfg.GeminiAPIKey), nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		ollama := NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
		if cfg.GeminiAPIKey != "" {
			return NewFallbackService(NewGeminiService(cfg.GeminiAPIKey), ollama, logger), nil
		}
		if cfg.OpenAIAPIKey != "" {
			return NewFallbackService(NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel), ollama, logger), nil
		}
		return ollama, nil
	}
}
