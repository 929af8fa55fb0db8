// ABOUTME: Centralized configuration for the financial report pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/render"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds all configuration for the report pipeline and its front ends
type Config struct {
	// Model provider settings
	Provider             string
	OpenAIKey            string
	OpenAIBaseURL        string
	ChatModel            string
	EmbeddingModel       string
	OllamaHost           string
	OllamaModel          string
	OllamaEmbeddingModel string
	Timeout              time.Duration
	MaxRetries           int
	RetryDelay           time.Duration
	RunTimeout           time.Duration

	// Pipeline settings
	ChunkSize           int
	ChunkOverlap        int
	TopK                int
	Mode                string
	ConfidenceThreshold float64
	SummaryMaxLength    int
	SummaryMinLength    int
	MaxInputWords       int
	Concurrency         int

	// Output settings
	Layout       string
	SchemaPath   string
	DataDir      string
	HTTPAddr     string
	ReportTitle  string
	SummaryTitle string
	DigestTitle  string
	DigestQuery  string
	StoreDigests bool
	WatchDir     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Provider:             getEnv("FINREPORT_PROVIDER", ProviderOpenAI),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		ChatModel:            getEnv("FINREPORT_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:       getEnv("FINREPORT_EMBEDDING_MODEL", "text-embedding-3-small"),
		OllamaHost:           getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:          getEnv("FINREPORT_OLLAMA_MODEL", "llama3.1"),
		OllamaEmbeddingModel: getEnv("FINREPORT_OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		Timeout:              getEnvDuration("FINREPORT_TIMEOUT", 30*time.Second),
		MaxRetries:           getEnvInt("FINREPORT_MAX_RETRIES", 3),
		RetryDelay:           getEnvDuration("FINREPORT_RETRY_DELAY", 2*time.Second),
		RunTimeout:           getEnvDuration("FINREPORT_RUN_TIMEOUT", 5*time.Minute),

		ChunkSize:           getEnvInt("FINREPORT_CHUNK_SIZE", 500),
		ChunkOverlap:        getEnvInt("FINREPORT_CHUNK_OVERLAP", 100),
		TopK:                getEnvInt("FINREPORT_TOP_K", 3),
		Mode:                getEnv("FINREPORT_MODE", string(core.ModeDirect)),
		ConfidenceThreshold: getEnvFloat("FINREPORT_CONFIDENCE_THRESHOLD", core.DefaultConfidenceThreshold),
		SummaryMaxLength:    getEnvInt("FINREPORT_SUMMARY_MAX_LENGTH", core.DefaultSummaryMaxLength),
		SummaryMinLength:    getEnvInt("FINREPORT_SUMMARY_MIN_LENGTH", core.DefaultSummaryMinLength),
		MaxInputWords:       getEnvInt("FINREPORT_MAX_INPUT_WORDS", core.DefaultMaxInputWords),
		Concurrency:         getEnvInt("FINREPORT_CONCURRENCY", 1),

		Layout:       getEnv("FINREPORT_LAYOUT", string(render.StyleFlat)),
		SchemaPath:   os.Getenv("FINREPORT_SCHEMA"),
		DataDir:      getEnv("FINREPORT_DATA_DIR", defaultDataDir()),
		HTTPAddr:     getEnv("FINREPORT_HTTP_ADDR", ":8080"),
		ReportTitle:  getEnv("FINREPORT_REPORT_TITLE", "Financial Report - Q4 2024"),
		SummaryTitle: getEnv("FINREPORT_SUMMARY_TITLE", "Financial Summary - Q4 2024"),
		DigestTitle:  getEnv("FINREPORT_DIGEST_TITLE", "Q4 2024 Financial Summary:"),
		DigestQuery:  getEnv("FINREPORT_DIGEST_QUERY", "Provide a financial summary for Q4 2024"),
		StoreDigests: getEnvBool("FINREPORT_STORE_DIGESTS", true),
		WatchDir:     os.Getenv("FINREPORT_WATCH_DIR"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("FINREPORT_CONFIDENCE_THRESHOLD must be 0-1, got %f", c.ConfidenceThreshold)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("FINREPORT_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.RunTimeout < 0 {
		return fmt.Errorf("FINREPORT_RUN_TIMEOUT must not be negative, got %v", c.RunTimeout)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("FINREPORT_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("FINREPORT_CHUNK_OVERLAP must be 0-%d, got %d", c.ChunkSize-1, c.ChunkOverlap)
	}
	if c.TopK < 1 {
		return fmt.Errorf("FINREPORT_TOP_K must be at least 1, got %d", c.TopK)
	}
	if c.SummaryMinLength > c.SummaryMaxLength {
		return fmt.Errorf("FINREPORT_SUMMARY_MIN_LENGTH must not exceed max %d, got %d", c.SummaryMaxLength, c.SummaryMinLength)
	}
	if c.MaxInputWords <= 0 {
		return fmt.Errorf("FINREPORT_MAX_INPUT_WORDS must be positive, got %d", c.MaxInputWords)
	}
	if _, err := core.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("FINREPORT_MODE: %w", err)
	}
	if _, err := render.LayoutByName(c.Layout); err != nil {
		return fmt.Errorf("FINREPORT_LAYOUT: %w", err)
	}
	switch c.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("FINREPORT_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderOllama, c.Provider)
	}
	return nil
}

// Pipeline converts the pipeline settings into a core.PipelineConfig
func (c *Config) Pipeline() core.PipelineConfig {
	mode, err := core.ParseMode(c.Mode)
	if err != nil {
		mode = core.ModeDirect
	}
	return core.PipelineConfig{
		ChunkSize:        c.ChunkSize,
		ChunkOverlap:     c.ChunkOverlap,
		Mode:             mode,
		TopK:             c.TopK,
		Threshold:        c.ConfidenceThreshold,
		Concurrency:      c.Concurrency,
		MaxInputWords:    c.MaxInputWords,
		SummaryMaxLength: c.SummaryMaxLength,
		SummaryMinLength: c.SummaryMinLength,
	}
}

// RenderLayout returns the configured page layout
func (c *Config) RenderLayout() render.Layout {
	layout, err := render.LayoutByName(c.Layout)
	if err != nil {
		return render.FlatLayout()
	}
	return layout
}

// defaultDataDir uses the XDG data directory: ~/.local/share/finreport/
func defaultDataDir() string {
	// Respects XDG_DATA_HOME set after process start, which tests rely on
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "finreport")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
