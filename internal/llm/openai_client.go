// ABOUTME: OpenAI client for embeddings, field answering, and summarization
// ABOUTME: Uses text-embedding-3-small for embeddings, gpt-4o-mini for answers and summaries (configurable)
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harper/finreport/internal/util"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(oc),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		timeout:        timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// Embed returns the embedding vector for text
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) ([]float32, error) {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		if err != nil {
			return nil, classify(err)
		}
		if len(resp.Data) == 0 {
			return nil, errors.New("no embeddings returned")
		}
		return resp.Data[0].Embedding, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return vec, nil
}

// Answer asks the chat model question against contextText and returns the
// answer span with the model's self-reported confidence
func (c *OpenAIClient) Answer(ctx context.Context, question, contextText string) (string, float64, error) {
	type answer struct {
		text       string
		confidence float64
	}

	res, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) (answer, error) {
		content, err := c.complete(ctx, answerSystemPrompt, answerUserPrompt(question, contextText), 0.1, true)
		if err != nil {
			return answer{}, err
		}
		text, confidence, err := parseAnswer(content)
		if err != nil {
			return answer{}, err
		}
		return answer{text: text, confidence: confidence}, nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to answer %q: %w", question, err)
	}

	log.Debug().Str("question", question).Float64("confidence", res.confidence).Msg("answered field")
	return res.text, res.confidence, nil
}

// Summarize condenses text into roughly minLength to maxLength words
func (c *OpenAIClient) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	summary, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) (string, error) {
		return c.complete(ctx, summarySystemPrompt, summaryUserPrompt(text, maxLength, minLength), 0.3, false)
	})
	if err != nil {
		return "", fmt.Errorf("failed to summarize: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string, temperature float32, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		Temperature: temperature,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// classify marks client errors that a retry cannot fix as permanent
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return util.Permanent(err)
		}
	}
	return err
}
