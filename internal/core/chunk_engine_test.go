// ABOUTME: Tests for sliding window chunking
// ABOUTME: Verifies window boundaries, ordering, laziness and round-trip reconstruction
package core

import (
	"strings"
	"testing"
)

func TestNewChunkEngine_Validation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"valid", 500, 100, false},
		{"zero overlap", 10, 0, false},
		{"overlap just below size", 10, 9, false},
		{"zero size", 0, 0, true},
		{"negative size", -1, 0, true},
		{"negative overlap", 10, -1, true},
		{"overlap equals size", 10, 10, true},
		{"overlap exceeds size", 10, 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce, err := NewChunkEngine(tt.size, tt.overlap)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewChunkEngine(%d, %d) error = nil, want error", tt.size, tt.overlap)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewChunkEngine(%d, %d) error = %v", tt.size, tt.overlap, err)
			}
			if ce.Size != tt.size || ce.Overlap != tt.overlap {
				t.Errorf("got size=%d overlap=%d", ce.Size, ce.Overlap)
			}
		})
	}
}

func TestChunkText_Windows(t *testing.T) {
	ce, _ := NewChunkEngine(4, 1)

	chunks := ce.ChunkText("abcdefghij")
	want := []string{"abcd", "defg", "ghij"}

	if len(chunks) != len(want) {
		t.Fatalf("len(chunks) = %d, want %d", len(chunks), len(want))
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunks[%d].Text = %q, want %q", i, chunks[i].Text, w)
		}
		if chunks[i].Order != i {
			t.Errorf("chunks[%d].Order = %d, want %d", i, chunks[i].Order, i)
		}
	}
}

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	ce, _ := NewChunkEngine(500, 100)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"short", "Revenue was $10M."},
		{"exactly size", strings.Repeat("x", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ce.ChunkText(tt.text)
			if len(chunks) != 1 {
				t.Fatalf("len(chunks) = %d, want 1", len(chunks))
			}
			if chunks[0].Text != tt.text {
				t.Errorf("chunk text = %q, want whole text", chunks[0].Text)
			}
			if chunks[0].Order != 0 {
				t.Errorf("chunk order = %d, want 0", chunks[0].Order)
			}
		})
	}
}

func TestChunkText_ConsecutiveChunksShareOverlap(t *testing.T) {
	ce, _ := NewChunkEngine(50, 10)
	text := strings.Repeat("The company reported revenue of $4.2 billion. ", 20)

	chunks := ce.ChunkText(text)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)
		tail := string(prev[len(prev)-10:])
		head := string(cur[:10])
		if tail != head {
			t.Errorf("chunk %d head %q does not match chunk %d tail %q", i, head, i-1, tail)
		}
	}
}

func TestChunkText_MeasuresRunes(t *testing.T) {
	ce, _ := NewChunkEngine(3, 0)

	chunks := ce.ChunkText("€€€€€")
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if chunks[0].Text != "€€€" || chunks[1].Text != "€€" {
		t.Errorf("chunks = %q, %q", chunks[0].Text, chunks[1].Text)
	}
}

func TestChunks_StopsEarly(t *testing.T) {
	ce, _ := NewChunkEngine(2, 0)

	var seen int
	for c := range ce.Chunks("abcdefghij") {
		seen++
		if c.Order == 1 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("consumed %d chunks, want 2", seen)
	}
}

func TestReassemble_RoundTrip(t *testing.T) {
	texts := []string{
		"",
		"a",
		"Total revenue for Q4 2024 was $12.5 million, up 8% year over year.",
		strings.Repeat("Net profit reached $2.1M while COGS fell. ", 40),
		"Ümsatz stieg auf 5 Mio. € — Marge 12 %.",
	}
	params := []struct{ size, overlap int }{
		{1, 0}, {2, 1}, {5, 0}, {5, 4}, {16, 3}, {500, 100}, {7, 6},
	}

	for _, text := range texts {
		for _, p := range params {
			ce, err := NewChunkEngine(p.size, p.overlap)
			if err != nil {
				t.Fatalf("NewChunkEngine(%d, %d) error = %v", p.size, p.overlap, err)
			}
			got := Reassemble(ce.ChunkText(text), p.overlap)
			if got != text {
				t.Errorf("size=%d overlap=%d: Reassemble = %q, want %q", p.size, p.overlap, got, text)
			}
		}
	}
}
