// ABOUTME: Local model client backed by Ollama through langchaingo
// ABOUTME: Keeps documents on the machine; same Embed/Answer/Summarize surface as the OpenAI client
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harper/finreport/internal/util"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaConfig holds configuration for the Ollama client
type OllamaConfig struct {
	ServerURL      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// OllamaClient answers and embeds with locally served models
type OllamaClient struct {
	chat       llms.Model
	embedder   embeddings.Embedder
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOllamaClient builds chat and embedding models against one Ollama server
func NewOllamaClient(config *OllamaConfig) (*OllamaClient, error) {
	chat, err := ollama.New(
		ollama.WithServerURL(config.ServerURL),
		ollama.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama chat model: %w", err)
	}

	embedLLM, err := ollama.New(
		ollama.WithServerURL(config.ServerURL),
		ollama.WithModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama embedding model: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(embedLLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OllamaClient{
		chat:       chat,
		embedder:   embedder,
		timeout:    timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}, nil
}

func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) ([]float32, error) {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return c.embedder.EmbedQuery(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return vec, nil
}

func (c *OllamaClient) Answer(ctx context.Context, question, contextText string) (string, float64, error) {
	prompt := answerSystemPrompt + "\n\n" + answerUserPrompt(question, contextText)

	content, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) (string, error) {
		content, err := c.generate(ctx, prompt, 0.1)
		if err != nil {
			return "", err
		}
		if _, _, err := parseAnswer(content); err != nil {
			return "", err
		}
		return content, nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to answer %q: %w", question, err)
	}
	return parseAnswer(content)
}

func (c *OllamaClient) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	prompt := summarySystemPrompt + "\n\n" + summaryUserPrompt(text, maxLength, minLength)

	summary, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) (string, error) {
		return c.generate(ctx, prompt, 0.3)
	})
	if err != nil {
		return "", fmt.Errorf("failed to summarize: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return llms.GenerateFromSinglePrompt(ctx, c.chat, prompt, llms.WithTemperature(temperature))
}
