// ABOUTME: Command-line runner for extraction accuracy benchmarks
// ABOUTME: Runs the scenarios against the configured model provider and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harper/finreport/benchmarks/accuracy"
	"github.com/harper/finreport/internal/config"
	"github.com/harper/finreport/internal/llm"
	"github.com/harper/finreport/internal/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	testID := flag.String("test", "", "Run specific scenario (q4, sparse, filing). If empty, runs all.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	logging.Setup(logging.Options{Level: logging.LevelFor(*verbose, false), Console: true, Writer: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file found, continuing")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Provider == config.ProviderOpenAI && cfg.OpenAIKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY environment variable is required for benchmarks")
	}

	schema, err := config.LoadSchema(cfg.SchemaPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load schema")
	}

	client, err := llm.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create model client")
	}

	fmt.Println("========================================")
	fmt.Println("finreport Extraction Benchmarks")
	fmt.Println("========================================")
	fmt.Printf("Provider: %s\n\n", cfg.Provider)

	runner := accuracy.NewRunner(client, cfg.Pipeline(), schema, *verbose, os.Stdout)
	ctx := context.Background()

	var results []accuracy.TestResult
	if *testID == "" {
		results, err = runner.RunAllTests(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("benchmark failed")
		}
	} else {
		scenario, ok := accuracy.ScenarioByID(*testID)
		if !ok {
			log.Fatal().Str("test", *testID).Msg("unknown scenario (valid options: q4, sparse, filing)")
		}

		fmt.Printf("Running scenario: %s\n\n", scenario.Name)

		result, err := runner.RunTest(ctx, scenario)
		if err != nil {
			log.Fatal().Err(err).Msg("scenario failed")
		}
		results = []accuracy.TestResult{result}
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		fmt.Printf("  Field Accuracy: %.2f\n", result.FieldAccuracy)
		fmt.Printf("  Sentinel Precision: %.2f\n", result.SentinelPrecision)
		fmt.Printf("  Context Recall: %.2f\n", result.ContextRecall)
		fmt.Printf("  Overall: %.2f\n", result.OverallScore)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	summary := accuracy.Summarize(results)
	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", summary.TotalTests)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Println("========================================")

	if err := accuracy.ExportResults(results, *outputPath); err != nil {
		log.Fatal().Err(err).Msg("failed to export results")
	}
	fmt.Printf("Results exported to: %s\n", *outputPath)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
