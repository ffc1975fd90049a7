package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"evaluno/interview-api/internal/apperrors"
)

// maxErrorBody caps how much of a failed response is read back.
const maxErrorBody = 4096

type groqClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int32         `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewGroqClient talks to an OpenAI-compatible chat completions endpoint. A
// nil httpClient uses http.DefaultClient; deadlines come from ctx.
func NewGroqClient(baseURL, apiKey string, httpClient *http.Client) LLMClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &groqClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Complete implements LLMClient.
func (g *groqClient) Complete(ctx context.Context, prompt Prompt, settings GenerationSettings) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: prompt.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt.User})

	body, err := json.Marshal(chatRequest{
		Model:       settings.Model,
		Messages:    messages,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ Groq request failed: %v", err)
		return "", apperrors.Wrap(apperrors.KindUpstreamUnavailable, "groq is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Printf("❌ Groq returned status %d", resp.StatusCode)
		return "", apperrors.Upstream(resp.StatusCode, string(errBody))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperrors.Wrap(apperrors.KindUpstreamUnavailable, "groq response could not be read", err)
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.Upstream(resp.StatusCode, "response contained no choices")
	}

	text := parsed.Choices[0].Message.Content
	log.Printf("📊 Groq response received (%d chars)", len(text))

	return text, nil
}
