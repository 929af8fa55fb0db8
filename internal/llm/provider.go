// ABOUTME: Provider selection for the model capabilities the pipeline consumes
// ABOUTME: Builds an OpenAI or Ollama client from the loaded configuration
package llm

import (
	"fmt"

	"github.com/harper/finreport/internal/config"
	"github.com/harper/finreport/internal/core"
	openai "github.com/sashabaranov/go-openai"
)

// Client provides every capability the pipeline needs from a model provider
type Client interface {
	core.Embedder
	core.Answerer
	core.Summarizer
}

var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*OllamaClient)(nil)
)

// New builds the client for cfg.Provider
func New(cfg *config.Config) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return NewOllamaClient(&OllamaConfig{
			ServerURL:      cfg.OllamaHost,
			ChatModel:      cfg.OllamaModel,
			EmbeddingModel: cfg.OllamaEmbeddingModel,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
	case config.ProviderOpenAI, "":
		return NewOpenAIClientWithConfig(&ClientConfig{
			APIKey:         cfg.OpenAIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
