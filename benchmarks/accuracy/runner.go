// ABOUTME: Runner for extraction benchmarks - executes scenarios and collects results
// ABOUTME: Builds a pipeline per scenario, extracts, retrieves, scores and exports JSON

package accuracy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/llm"
	"github.com/harper/finreport/internal/models"
)

// Runner executes benchmark scenarios against one model client
type Runner struct {
	client  llm.Client
	cfg     core.PipelineConfig
	schema  models.Schema
	metrics *MetricsCalculator
	verbose bool
	out     io.Writer
}

// NewRunner creates a runner. cfg.Mode is overridden per scenario.
func NewRunner(client llm.Client, cfg core.PipelineConfig, schema models.Schema, verbose bool, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		client:  client,
		cfg:     cfg,
		schema:  schema,
		metrics: NewMetricsCalculator(),
		verbose: verbose,
		out:     out,
	}
}

// RunTest executes a single scenario
func (r *Runner) RunTest(ctx context.Context, scenario Scenario) (TestResult, error) {
	if r.verbose {
		fmt.Fprintf(r.out, "\n========================================\n")
		fmt.Fprintf(r.out, "RUNNING: %s\n", scenario.Name)
		fmt.Fprintf(r.out, "========================================\n")
		fmt.Fprintf(r.out, "Description: %s\n\n", scenario.Description)
	}

	cfg := r.cfg
	if scenario.Mode != "" {
		cfg.Mode = scenario.Mode
	}
	pipeline, err := core.NewPipeline(cfg, r.schema, r.client, r.client, r.client)
	if err != nil {
		return TestResult{}, fmt.Errorf("failed to build pipeline: %w", err)
	}

	started := time.Now()
	extraction, err := pipeline.Extract(ctx, scenario.Document)
	if err != nil {
		return TestResult{}, fmt.Errorf("extraction failed: %w", err)
	}

	var retrieved []string
	if scenario.GroundTruth.RetrievalQuery != "" {
		hits, err := pipeline.Retrieve(ctx, scenario.Document, scenario.GroundTruth.RetrievalQuery, 0)
		if err != nil {
			return TestResult{}, fmt.Errorf("retrieval failed: %w", err)
		}
		for _, h := range hits {
			retrieved = append(retrieved, h.Chunk.Text)
		}
	}

	result := r.metrics.EvaluateTest(scenario, extraction.Results, retrieved)
	result.Details["mode"] = string(extraction.Mode)
	result.Details["chunks"] = extraction.Chunks
	result.Details["duration_ms"] = time.Since(started).Milliseconds()

	if r.verbose {
		for _, res := range extraction.Results {
			fmt.Fprintf(r.out, "  %-28s %-16s (want %s, confidence %.2f)\n",
				res.Field, res.Value, scenario.GroundTruth.Fields[res.Field], res.Confidence)
		}
		fmt.Fprintf(r.out, "\nField Accuracy: %.2f\n", result.FieldAccuracy)
		fmt.Fprintf(r.out, "Sentinel Precision: %.2f\n", result.SentinelPrecision)
		fmt.Fprintf(r.out, "Context Recall: %.2f\n", result.ContextRecall)
		fmt.Fprintf(r.out, "Status: %s\n", result.Status)
	}

	return result, nil
}

// RunAllTests executes every scenario
func (r *Runner) RunAllTests(ctx context.Context) ([]TestResult, error) {
	scenarios := GetAllScenarios()
	results := make([]TestResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := r.RunTest(ctx, scenario)
		if err != nil {
			return nil, fmt.Errorf("test %s failed: %w", scenario.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// Summary is the exported benchmark report
type Summary struct {
	Timestamp  string       `json:"timestamp"`
	TotalTests int          `json:"total_tests"`
	Passed     int          `json:"passed"`
	Failed     int          `json:"failed"`
	Results    []TestResult `json:"results"`
}

// Summarize counts passes and failures
func Summarize(results []TestResult) Summary {
	s := Summary{
		Timestamp:  time.Now().Format(time.RFC3339),
		TotalTests: len(results),
		Results:    results,
	}
	for _, result := range results {
		if result.Status == "PASS" {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// ExportResults writes the summary of results to outputPath as JSON
func ExportResults(results []TestResult, outputPath string) error {
	jsonData, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
