// ABOUTME: Chunk represents one overlapping window of source document text
// ABOUTME: Order preserves the window's position in the original document
package models

// Chunk is an immutable window of document text produced by the chunker
type Chunk struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}
