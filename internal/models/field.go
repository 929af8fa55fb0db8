// ABOUTME: Field schema and extraction result models for financial reports
// ABOUTME: Schema fields iterate in declaration order so layout stays deterministic
package models

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// NotAvailable is the sentinel value for fields that failed the confidence gate
	NotAvailable = "N/A"
	// CurrencyMarker prefixes accepted answers for monetary fields
	CurrencyMarker = "$"
)

// FieldSpec maps a report field name to the question asked about it
type FieldSpec struct {
	Name     string `yaml:"name" json:"name"`
	Question string `yaml:"question" json:"question"`
	Monetary bool   `yaml:"monetary" json:"monetary"`
}

// Schema is the ordered set of fields a report must populate
type Schema struct {
	Title  string      `yaml:"title,omitempty" json:"title,omitempty"`
	Fields []FieldSpec `yaml:"fields" json:"fields"`
}

// Validate checks that the schema has at least one field and that every
// field has a unique non-empty name and a question
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return errors.New("schema must define at least one field")
	}
	seen := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("field %d: name cannot be empty", i)
		}
		if strings.TrimSpace(f.Question) == "" {
			return fmt.Errorf("field %q: question cannot be empty", f.Name)
		}
		if seen[name] {
			return fmt.Errorf("field %q: duplicate name", f.Name)
		}
		seen[name] = true
	}
	return nil
}

// Names returns the field names in schema order
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// MonetaryFields returns the set of field names whose values carry a currency marker
func (s Schema) MonetaryFields() map[string]bool {
	set := make(map[string]bool)
	for _, f := range s.Fields {
		if f.Monetary {
			set[f.Name] = true
		}
	}
	return set
}

// ExtractionResult is the gated outcome of asking one schema question
type ExtractionResult struct {
	Field      string  `yaml:"field" json:"field"`
	Value      string  `yaml:"value" json:"value"`
	Answer     string  `yaml:"answer,omitempty" json:"answer,omitempty"`
	Confidence float64 `yaml:"confidence" json:"confidence"`
}

// Available reports whether the field passed the confidence gate
func (r ExtractionResult) Available() bool {
	return r.Value != NotAvailable
}
