// ABOUTME: Tests for the report renderer state machine and pagination
// ABOUTME: Uses the recording surface to assert exact placements
package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/harper/finreport/internal/models"
)

func makeEntries(n int) []models.Entry {
	entries := make([]models.Entry, n)
	for i := range entries {
		entries[i] = models.Entry{Label: fmt.Sprintf("Field %d", i), Value: fmt.Sprintf("$%d", i*100)}
	}
	return entries
}

func TestRenderFlatPlacements(t *testing.T) {
	surface := NewRecordingSurface()
	entries := []models.Entry{
		{Label: "Total Revenue", Value: "$10M"},
		{Label: "Profit Margin", Value: "N/A"},
	}

	_, stats, err := Render(surface, FlatLayout(), "Financial Report - Q4 2024", entries)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := []Placement{
		{Page: 1, X: 180, Y: 750, Font: FontBold, Size: 16, Text: "Financial Report - Q4 2024"},
		{Page: 1, X: 50, Y: 710, Font: FontRegular, Size: 12, Text: "Total Revenue: $10M"},
		{Page: 1, X: 50, Y: 685, Font: FontRegular, Size: 12, Text: "Profit Margin: N/A"},
	}
	if len(stats.Placements) != len(want) {
		t.Fatalf("placements = %d, want %d", len(stats.Placements), len(want))
	}
	for i, p := range want {
		if stats.Placements[i] != p {
			t.Errorf("placement[%d] = %+v, want %+v", i, stats.Placements[i], p)
		}
	}
	if stats.Pages != 1 {
		t.Errorf("Pages = %d, want 1", stats.Pages)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
}

func TestRenderStackedPlacements(t *testing.T) {
	surface := NewRecordingSurface()
	entries := []models.Entry{{Label: "Net Profit", Value: "$2M"}}

	_, stats, err := Render(surface, StackedLayout(), "Summary", entries)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := []Placement{
		{Page: 1, X: 200, Y: 750, Font: FontBold, Size: 16, Text: "Summary"},
		{Page: 1, X: 50, Y: 720, Font: FontBold, Size: 14, Text: "Net Profit:"},
		{Page: 1, X: 80, Y: 700, Font: FontRegular, Size: 12, Text: "$2M"},
	}
	for i, p := range want {
		if stats.Placements[i] != p {
			t.Errorf("placement[%d] = %+v, want %+v", i, stats.Placements[i], p)
		}
	}
}

func TestRenderPagination(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		entries int
		pages   int
	}{
		{"flat empty", FlatLayout(), 0, 1},
		{"flat fits one page", FlatLayout(), 25, 1},
		{"flat spills", FlatLayout(), 26, 2},
		{"flat thirty", FlatLayout(), 30, 2},
		{"flat second page full", FlatLayout(), 52, 2},
		{"flat third page", FlatLayout(), 53, 3},
		{"stacked eleven fields", StackedLayout(), 11, 1},
		{"stacked fits one page", StackedLayout(), 14, 1},
		{"stacked spills", StackedLayout(), 15, 2},
		{"stacked second page full", StackedLayout(), 29, 2},
		{"stacked third page", StackedLayout(), 30, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := NewRecordingSurface()
			_, stats, err := Render(surface, tt.layout, "Title", makeEntries(tt.entries))
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if stats.Pages != tt.pages {
				t.Errorf("Pages = %d, want %d", stats.Pages, tt.pages)
			}
			if surface.Pages() != tt.pages {
				t.Errorf("surface pages = %d, want %d", surface.Pages(), tt.pages)
			}
			if got := PageCount(tt.layout, tt.entries); got != tt.pages {
				t.Errorf("PageCount = %d, want %d", got, tt.pages)
			}
		})
	}
}

func TestRenderPaginationFormula(t *testing.T) {
	l := FlatLayout()
	n := 30
	writable := l.TopY - l.BottomMargin
	want := int(math.Ceil(float64(n) * l.LineHeight / writable))

	_, stats, err := Render(NewRecordingSurface(), l, "Title", makeEntries(n))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.Pages != want {
		t.Errorf("Pages = %d, want %d", stats.Pages, want)
	}
	if stats.Pages < 2 {
		t.Errorf("Pages = %d, want a page break", stats.Pages)
	}
}

func TestRenderNoEntrySplitAcrossPages(t *testing.T) {
	_, stats, err := Render(NewRecordingSurface(), StackedLayout(), "Title", makeEntries(40))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// Placements after the title alternate label, value
	body := stats.Placements[1:]
	for i := 0; i+1 < len(body); i += 2 {
		if body[i].Page != body[i+1].Page {
			t.Errorf("entry %q split across pages %d and %d", body[i].Text, body[i].Page, body[i+1].Page)
		}
	}
	for _, p := range stats.Placements {
		if p.Y < 0 {
			t.Errorf("placement %q drawn below page at y=%v", p.Text, p.Y)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	entries := makeEntries(60)
	for _, layout := range []Layout{FlatLayout(), StackedLayout()} {
		t.Run(string(layout.Style), func(t *testing.T) {
			first, s1, err := Render(NewRecordingSurface(), layout, "Title", entries)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			second, s2, err := Render(NewRecordingSurface(), layout, "Title", entries)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !bytes.Equal(first, second) {
				t.Error("renders differ")
			}
			if s1.Pages != s2.Pages || len(s1.Placements) != len(s2.Placements) {
				t.Errorf("stats differ: %+v vs %+v", s1.Pages, s2.Pages)
			}
		})
	}
}

func TestRenderFontResetAfterPageBreak(t *testing.T) {
	surface := NewRecordingSurface()
	if _, _, err := Render(surface, FlatLayout(), "Title", makeEntries(26)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i, op := range surface.Ops {
		if op.Kind != "page" {
			continue
		}
		if i+1 >= len(surface.Ops) {
			t.Fatal("page break is the last op")
		}
		if next := surface.Ops[i+1]; next.Kind != "font" {
			t.Errorf("op after page break = %+v, want font", next)
		}
	}
}

func TestRenderSurfaceErrors(t *testing.T) {
	boom := errors.New("disk full")

	for _, kind := range []string{"font", "text", "page", "save"} {
		t.Run(kind, func(t *testing.T) {
			surface := NewRecordingSurface()
			surface.Fail = map[string]error{kind: boom}

			data, stats, err := Render(surface, FlatLayout(), "Title", makeEntries(30))
			if err == nil {
				t.Fatal("expected error")
			}
			var re *RenderError
			if !errors.As(err, &re) {
				t.Fatalf("error = %T, want *RenderError", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("error = %v, want wrapped %v", err, boom)
			}
			if data != nil || stats != nil {
				t.Error("expected no output on failure")
			}
		})
	}
}

func TestRenderInvalidLayout(t *testing.T) {
	l := FlatLayout()
	l.LineHeight = 0

	_, _, err := Render(NewRecordingSurface(), l, "Title", makeEntries(1))
	var re *RenderError
	if !errors.As(err, &re) || re.Op != "layout" {
		t.Errorf("error = %v, want layout RenderError", err)
	}
}

func TestRenderNarrative(t *testing.T) {
	text := strings.Repeat("revenue grew strongly ", 20) + "\n\nOutlook positive."
	surface := NewRecordingSurface()

	_, stats, err := RenderNarrative(surface, StackedLayout(), "Financial Summary - Q4 2024", text, 40)
	if err != nil {
		t.Fatalf("RenderNarrative failed: %v", err)
	}

	texts := surface.Texts()
	if texts[0] != "Financial Summary - Q4 2024" {
		t.Errorf("title = %q", texts[0])
	}
	for _, line := range texts[1:] {
		if len([]rune(line)) > 40 {
			t.Errorf("line %q longer than 40 runes", line)
		}
	}
	if texts[len(texts)-1] != "Outlook positive." {
		t.Errorf("last line = %q, want %q", texts[len(texts)-1], "Outlook positive.")
	}
	if stats.Entries != len(WrapText(text, 40)) {
		t.Errorf("Entries = %d, want %d", stats.Entries, len(WrapText(text, 40)))
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"short", "hello world", 20, []string{"hello world"}},
		{"wraps at space", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"long word split", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"paragraphs", "one\n\ntwo", 10, []string{"one", "", "two"}},
		{"collapses spaces", "a    b", 10, []string{"a b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("WrapText = %q, want %q", got, tt.want)
			}
		})
	}
}
