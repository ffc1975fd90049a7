package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"

	"evaluno/interview-api/internal/apperrors"
)

// GeminiService is both a completion client and an embedder.
type GeminiService interface {
	LLMClient
	Embedder
}

type geminiService struct {
	client     *genai.Client
	embedModel string
}

const maxEmbedBytes = 40000

func NewGeminiService(ctx context.Context, apiKey, embedModel string) (GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		embedModel: embedModel,
	}, nil
}

// Complete implements LLMClient.
func (g *geminiService) Complete(ctx context.Context, prompt Prompt, settings GenerationSettings) (string, error) {
	temperature := settings.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: settings.MaxOutputTokens,
	}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, settings.Model, genai.Text(prompt.User), cfg)
	if err != nil {
		log.Printf("❌ Gemini API error: %v", err)
		return "", classifyGeminiError(err)
	}

	if resp == nil {
		return "", apperrors.New(apperrors.KindUpstreamUnavailable, "gemini returned no response")
	}

	text := resp.Text()
	log.Printf("📊 Gemini response received (%d chars)", len(text))

	return text, nil
}

// Embed implements Embedder.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	text = truncateUTF8(text, maxEmbedBytes)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// classifyGeminiError separates answered-with-an-error from never-answered.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		upstream := apperrors.Upstream(apiErr.Code, apiErr.Message)
		upstream.Err = err
		return upstream
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		upstream := apperrors.Upstream(apiErrPtr.Code, apiErrPtr.Message)
		upstream.Err = err
		return upstream
	}
	return apperrors.Wrap(apperrors.KindUpstreamUnavailable, "gemini is unreachable", err)
}
