// ABOUTME: Tests for provider selection from configuration
// ABOUTME: Constructs clients without contacting any model server
package llm

import (
	"testing"

	"github.com/harper/finreport/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    string
		wantErr bool
	}{
		{"openai", config.Config{Provider: config.ProviderOpenAI, OpenAIKey: "k", ChatModel: "m", EmbeddingModel: "e"}, "*llm.OpenAIClient", false},
		{"openai without key", config.Config{Provider: config.ProviderOpenAI}, "", true},
		{"ollama", config.Config{Provider: config.ProviderOllama, OllamaHost: "http://localhost:11434", OllamaModel: "llama3.1", OllamaEmbeddingModel: "nomic-embed-text"}, "*llm.OllamaClient", false},
		{"unknown", config.Config{Provider: "bedrock"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch client.(type) {
			case *OpenAIClient:
				if tt.want != "*llm.OpenAIClient" {
					t.Errorf("New() = %T, want %s", client, tt.want)
				}
			case *OllamaClient:
				if tt.want != "*llm.OllamaClient" {
					t.Errorf("New() = %T, want %s", client, tt.want)
				}
			}
		})
	}
}
