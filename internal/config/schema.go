// ABOUTME: Report schema loading and the built-in quarterly financial schema
// ABOUTME: Schemas are YAML files so field sets can change without code changes
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/harper/finreport/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultSchema is the eleven-field quarterly financial report
func DefaultSchema() models.Schema {
	return models.Schema{
		Title: "Financial Report - Q4 2024",
		Fields: []models.FieldSpec{
			{Name: "Total Revenue", Question: "What is the company's total revenue?", Monetary: true},
			{Name: "Product Sales Revenue", Question: "How much revenue came from product sales?", Monetary: true},
			{Name: "Service Revenue", Question: "What is the service revenue?", Monetary: true},
			{Name: "Subscription Revenue", Question: "How much subscription revenue was earned?", Monetary: true},
			{Name: "Total Expenses", Question: "What are the total company expenses?", Monetary: true},
			{Name: "COGS", Question: "What is the cost of goods sold (COGS)?", Monetary: true},
			{Name: "Marketing & R&D Expenses", Question: "What are the marketing and R&D expenses?", Monetary: true},
			{Name: "Net Profit", Question: "What is the net profit?", Monetary: true},
			{Name: "Profit Margin", Question: "What is the company's profit margin percentage?"},
			{Name: "Future Revenue Projection", Question: "What is the projected revenue for next quarter?", Monetary: true},
			{Name: "Investment Raised", Question: "How much investment did the company raise?", Monetary: true},
		},
	}
}

// LoadSchema reads a YAML schema from path. An empty path returns DefaultSchema.
func LoadSchema(path string) (models.Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return models.Schema{}, fmt.Errorf("failed to open schema: %w", err)
	}
	defer f.Close()

	return ReadSchema(f)
}

// ReadSchema decodes and validates a YAML schema
func ReadSchema(r io.Reader) (models.Schema, error) {
	var schema models.Schema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		return models.Schema{}, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := schema.Validate(); err != nil {
		return models.Schema{}, fmt.Errorf("invalid schema: %w", err)
	}
	return schema, nil
}

// WriteSchema encodes schema as YAML
func WriteSchema(w io.Writer, schema models.Schema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return enc.Close()
}
