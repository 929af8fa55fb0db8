// ABOUTME: Entry is one renderable label/value line of a report
// ABOUTME: Converts extraction results into renderer input preserving order
package models

// Entry is a single line item handed to the report renderer.
// An empty Label renders the Value alone.
type Entry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// EntriesFromResults converts extraction results into entries in the same order
func EntriesFromResults(results []ExtractionResult) []Entry {
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{Label: r.Field, Value: r.Value}
	}
	return entries
}
