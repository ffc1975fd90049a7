package services

import (
	"context"
	"fmt"

	"evaluno/interview-api/internal/config"
)

// GenerationSettings are fixed per deployment and passed on every call.
type GenerationSettings struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// LLMClient sends one prompt and returns the raw completion text. Providers
// make exactly one attempt per call.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt, settings GenerationSettings) (string, error)
}

// Embedder turns text into a dense vector for the question bank.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SettingsFromConfig copies the generation knobs out of the LLM config.
func SettingsFromConfig(cfg config.LLMConfig) GenerationSettings {
	return GenerationSettings{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}

// NewLLMClient builds the client for the configured provider. The Gemini
// service is returned as well so it can double as the embedder; it is nil
// when no Gemini key is configured.
func NewLLMClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, GeminiService, error) {
	var gemini GeminiService
	if cfg.GeminiAPIKey != "" {
		svc, err := NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		gemini = svc
	}

	switch cfg.Provider {
	case "gemini":
		if gemini == nil {
			return nil, nil, fmt.Errorf("gemini provider selected without an API key")
		}
		return gemini, gemini, nil
	case "groq":
		return NewGroqClient(cfg.GroqBaseURL, cfg.GroqAPIKey, nil), gemini, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
