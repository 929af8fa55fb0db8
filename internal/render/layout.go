// ABOUTME: Layout constants for the flat and stacked report variants
// ABOUTME: Both share one coordinate convention: US Letter points, cursor starting at y=750
package render

import (
	"fmt"
	"strings"
)

const (
	// LetterWidth is the US Letter page width in points
	LetterWidth = 612.0
	// LetterHeight is the US Letter page height in points
	LetterHeight = 792.0
	// DefaultTopY is where the cursor starts on every page
	DefaultTopY = 750.0

	FontRegular = "Helvetica"
	FontBold    = "Helvetica-Bold"
)

// Style selects how each entry is laid out
type Style string

const (
	// StyleFlat draws "label: value" on a single line
	StyleFlat Style = "flat"
	// StyleStacked draws a bold label line followed by an indented value line
	StyleStacked Style = "stacked"
)

// Layout holds every constant that determines placement. Rendering the
// same entries with the same Layout always yields the same placements.
type Layout struct {
	Style        Style
	PageWidth    float64
	PageHeight   float64
	TopY         float64
	BottomMargin float64

	TitleX    float64
	TitleFont string
	TitleSize float64
	TitleGap  float64

	LabelX    float64
	LabelFont string
	LabelSize float64
	// LabelGap is the drop from a stacked label to its value line
	LabelGap float64

	ValueX    float64
	ValueFont string
	ValueSize float64
	// LineHeight is the drop after each entry
	LineHeight float64
}

// FlatLayout is the single-line "label: value" report
func FlatLayout() Layout {
	return Layout{
		Style:        StyleFlat,
		PageWidth:    LetterWidth,
		PageHeight:   LetterHeight,
		TopY:         DefaultTopY,
		BottomMargin: 100,
		TitleX:       180,
		TitleFont:    FontBold,
		TitleSize:    16,
		TitleGap:     40,
		LabelX:       50,
		LabelFont:    FontRegular,
		LabelSize:    12,
		ValueX:       50,
		ValueFont:    FontRegular,
		ValueSize:    12,
		LineHeight:   25,
	}
}

// StackedLayout is the two-line bold label report
func StackedLayout() Layout {
	return Layout{
		Style:        StyleStacked,
		PageWidth:    LetterWidth,
		PageHeight:   LetterHeight,
		TopY:         DefaultTopY,
		BottomMargin: 50,
		TitleX:       200,
		TitleFont:    FontBold,
		TitleSize:    16,
		TitleGap:     30,
		LabelX:       50,
		LabelFont:    FontBold,
		LabelSize:    14,
		LabelGap:     20,
		ValueX:       80,
		ValueFont:    FontRegular,
		ValueSize:    12,
		LineHeight:   30,
	}
}

// LayoutByName returns the named layout variant
func LayoutByName(name string) (Layout, error) {
	switch Style(strings.ToLower(strings.TrimSpace(name))) {
	case StyleFlat:
		return FlatLayout(), nil
	case StyleStacked:
		return StackedLayout(), nil
	}
	return Layout{}, fmt.Errorf("layout must be %q or %q, got %q", StyleFlat, StyleStacked, name)
}

// EntryHeight is the vertical space one entry consumes
func (l Layout) EntryHeight() float64 {
	if l.Style == StyleStacked {
		return l.LabelGap + l.LineHeight
	}
	return l.LineHeight
}

// Validate checks that the layout can make progress down a page
func (l Layout) Validate() error {
	if l.EntryHeight() <= 0 {
		return fmt.Errorf("entry height must be positive, got %v", l.EntryHeight())
	}
	if l.TopY < l.BottomMargin {
		return fmt.Errorf("top y %v must not be below bottom margin %v", l.TopY, l.BottomMargin)
	}
	if l.TopY > l.PageHeight {
		return fmt.Errorf("top y %v exceeds page height %v", l.TopY, l.PageHeight)
	}
	return nil
}
