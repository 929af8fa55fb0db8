// ABOUTME: Accuracy metrics for extraction benchmarks
// ABOUTME: Deterministic scoring of field values, N/A precision and retrieval recall against ground truth

package accuracy

import (
	"fmt"
	"strings"

	"github.com/harper/finreport/internal/models"
)

// PassThreshold is the minimum score every metric needs for a PASS
const PassThreshold = 0.9

// TestResult is the scored outcome of one scenario
type TestResult struct {
	TestID            string         `json:"test_id"`
	TestName          string         `json:"test_name"`
	FieldAccuracy     float64        `json:"field_accuracy"`
	SentinelPrecision float64        `json:"sentinel_precision"`
	ContextRecall     float64        `json:"context_recall"`
	OverallScore      float64        `json:"overall_score"`
	Status            string         `json:"status"`
	Details           map[string]any `json:"details"`
}

// MetricsCalculator computes benchmark scores
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// normalizeValue makes "$1,200,000" and "1200000" compare equal
func normalizeValue(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	v = strings.TrimPrefix(v, models.CurrencyMarker)
	v = strings.ReplaceAll(v, ",", "")
	return strings.Join(strings.Fields(v), "")
}

// CalculateFieldAccuracy is the fraction of expected fields whose reported
// value matches. A field the run did not report counts as wrong.
func (m *MetricsCalculator) CalculateFieldAccuracy(
	results []models.ExtractionResult,
	expected map[string]string,
) (float64, string) {
	if len(expected) == 0 {
		return 1.0, "No fields expected"
	}

	got := make(map[string]string, len(results))
	for _, r := range results {
		got[r.Field] = r.Value
	}

	correct := 0
	var wrong []string
	for field, want := range expected {
		value, ok := got[field]
		if ok && normalizeValue(value) == normalizeValue(want) {
			correct++
			continue
		}
		wrong = append(wrong, field)
	}

	score := float64(correct) / float64(len(expected))
	if len(wrong) == 0 {
		return score, "All fields match ground truth"
	}
	return score, fmt.Sprintf("%d/%d fields match, wrong: %v", correct, len(expected), wrong)
}

// CalculateSentinelPrecision is the fraction of N/A answers that were
// expected to be N/A. Withholding a stated value lowers it; a run that
// withholds nothing scores 1.0.
func (m *MetricsCalculator) CalculateSentinelPrecision(
	results []models.ExtractionResult,
	expected map[string]string,
) (float64, string) {
	withheld := 0
	justified := 0
	var unjustified []string

	for _, r := range results {
		if r.Value != models.NotAvailable {
			continue
		}
		withheld++
		if expected[r.Field] == models.NotAvailable {
			justified++
		} else {
			unjustified = append(unjustified, r.Field)
		}
	}

	if withheld == 0 {
		return 1.0, "No fields withheld"
	}
	score := float64(justified) / float64(withheld)
	if len(unjustified) == 0 {
		return score, fmt.Sprintf("All %d N/A answers justified", withheld)
	}
	return score, fmt.Sprintf("N/A reported for stated fields: %v", unjustified)
}

// CalculateContextRecall computes the share of expected snippets present in
// the retrieved chunks
func (m *MetricsCalculator) CalculateContextRecall(
	retrievedContext []string,
	expectedContextItems []string,
) (float64, string) {
	if len(expectedContextItems) == 0 {
		return 1.0, "No context retrieval required"
	}

	allContext := strings.ToUpper(strings.Join(retrievedContext, " "))

	foundCount := 0
	var missingItems []string
	for _, expectedItem := range expectedContextItems {
		if strings.Contains(allContext, strings.ToUpper(expectedItem)) {
			foundCount++
		} else {
			missingItems = append(missingItems, expectedItem)
		}
	}

	recall := float64(foundCount) / float64(len(expectedContextItems))
	if recall == 1.0 {
		return 1.0, "Perfect context recall - all expected items retrieved"
	}
	return recall, fmt.Sprintf("Partial context recall (%.2f) - missing items: %v", recall, missingItems)
}

// EvaluateTest scores one scenario run
func (m *MetricsCalculator) EvaluateTest(
	scenario Scenario,
	results []models.ExtractionResult,
	retrievedContext []string,
) TestResult {
	accuracy, accuracyDetail := m.CalculateFieldAccuracy(results, scenario.GroundTruth.Fields)
	precision, precisionDetail := m.CalculateSentinelPrecision(results, scenario.GroundTruth.Fields)
	recall, recallDetail := m.CalculateContextRecall(retrievedContext, scenario.GroundTruth.ExpectedContextItems)

	status := "FAIL"
	if accuracy >= PassThreshold && precision >= PassThreshold && recall >= PassThreshold {
		status = "PASS"
	}

	return TestResult{
		TestID:            scenario.ID,
		TestName:          scenario.Name,
		FieldAccuracy:     accuracy,
		SentinelPrecision: precision,
		ContextRecall:     recall,
		OverallScore:      (accuracy + precision + recall) / 3.0,
		Status:            status,
		Details: map[string]any{
			"accuracy_detail":  accuracyDetail,
			"precision_detail": precisionDetail,
			"recall_detail":    recallDetail,
			"fields":           len(results),
			"context_items":    len(retrievedContext),
		},
	}
}
