package services

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"

	"alfredoptarigan/hiring-pipeline/internal/logger"
)

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type geminiService struct {
	client       *genai.Client
	modelName    string
	embedModel   string
	initialDelay time.Duration
}

// maxEmbeddingChars keeps embedding input inside the model's token window.
const maxEmbeddingChars = 40000

func NewGeminiService(apiKey string, initialDelay time.Duration) (GeminiService, error) {
	if apiKey == "" {
		return nil, errors.WithHint(errors.New("gemini API key is not set"), "set GEMINI_API_KEY")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	return &geminiService{
		client:       client,
		modelName:    "gemini-2.5-flash",
		embedModel:   "text-embedding-004",
		initialDelay: initialDelay,
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbeddingChars {
		text = text[:maxEmbeddingChars]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate embedding")
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate text")
	}
	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}

	text := resp.Text()
	if text != "" {
		return text, nil
	}

	var parts []string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	if len(parts) > 0 {
		logger.Warnf("⚠️ Gemini returned no top-level text, using %d candidate parts", len(parts))
		return strings.Join(parts, "\n"), nil
	}

	return "", errors.New("no text content in response")
}

// GenerateTextWithRetry implements GeminiService. Delays double after each
// failed attempt.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	delay := g.initialDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}
		logger.Warnf("⚠️ Gemini attempt %d/%d failed: %v. Retrying in %s", attempt, maxRetries, err, delay)

		select {
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), "context cancelled")
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", errors.Wrapf(lastErr, "failed after %d attempts", maxRetries)
}
