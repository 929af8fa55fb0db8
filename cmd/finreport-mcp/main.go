// ABOUTME: Standalone MCP server for finreport with stdio transport
// ABOUTME: Wires config, model client, storage and the report service, then serves the MCP tools
package main

import (
	"os"

	"github.com/harper/finreport/internal/config"
	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/llm"
	"github.com/harper/finreport/internal/logging"
	"github.com/harper/finreport/internal/mcp"
	"github.com/harper/finreport/internal/report"
	"github.com/harper/finreport/internal/storage"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

func main() {
	// stdout carries the protocol, so logs go to stderr as JSON
	logging.Setup(logging.Options{Level: logging.LevelFor(os.Getenv("FINREPORT_DEBUG") != "", false), Writer: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.Provider == config.ProviderOpenAI && cfg.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, report generation will fail")
	}

	schema, err := config.LoadSchema(cfg.SchemaPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load schema")
	}

	client, err := llm.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Provider).Msg("failed to initialize model client")
	}

	pipeline, err := core.NewPipeline(cfg.Pipeline(), schema, client, client, client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pipeline")
	}

	store, err := storage.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer store.Close()

	svc, err := report.NewService(pipeline, store, report.OptionsFromConfig(cfg, schema))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build report service")
	}

	server, handlers := mcp.NewServer(svc)
	defer handlers.Shutdown()

	log.Info().Str("data_dir", cfg.DataDir).Msg("finreport MCP server starting on stdio")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Error().Err(err).Msg("server error")
	}
}
