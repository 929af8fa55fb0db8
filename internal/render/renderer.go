// ABOUTME: Report renderer that lays entries onto a Surface with deterministic page breaks
// ABOUTME: Ready -> Writing -> Done state machine driven by a vertical render cursor
package render

import (
	"strings"

	"github.com/harper/finreport/internal/models"
)

type renderState int

const (
	stateReady renderState = iota
	stateWriting
	stateDone
)

// Cursor tracks the vertical write position for one render call
type Cursor struct {
	Y            float64
	TopY         float64
	BottomMargin float64
	PageHeight   float64
	Page         int
}

func newCursor(l Layout) Cursor {
	return Cursor{Y: l.TopY, TopY: l.TopY, BottomMargin: l.BottomMargin, PageHeight: l.PageHeight, Page: 1}
}

// Advance moves the cursor down by dy
func (c *Cursor) Advance(dy float64) {
	c.Y -= dy
}

// Exhausted reports whether the cursor has dropped below the bottom margin
func (c *Cursor) Exhausted() bool {
	return c.Y < c.BottomMargin
}

// nextPage resets the cursor to the top of a fresh page
func (c *Cursor) nextPage() {
	c.Y = c.TopY
	c.Page++
}

// Placement records where one line of text was drawn
type Placement struct {
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Font string  `json:"font"`
	Size float64 `json:"size"`
	Text string  `json:"text"`
}

// Stats describes a completed render
type Stats struct {
	Pages      int         `json:"pages"`
	Entries    int         `json:"entries"`
	Placements []Placement `json:"placements"`
}

type renderer struct {
	surface Surface
	layout  Layout
	cursor  Cursor
	state   renderState
	font    string
	size    float64
	stats   Stats
}

// Render draws title and entries onto surface and returns the saved bytes.
// A page break happens when the cursor falls below the bottom margin and
// another entry remains; an entry is never split across pages. Any surface
// failure is returned as a *RenderError and no bytes are returned.
func Render(surface Surface, layout Layout, title string, entries []models.Entry) ([]byte, *Stats, error) {
	if err := layout.Validate(); err != nil {
		return nil, nil, &RenderError{Op: "layout", Err: err}
	}

	r := &renderer{surface: surface, layout: layout, cursor: newCursor(layout), state: stateReady}

	if err := r.drawTitle(title); err != nil {
		return nil, nil, err
	}

	r.state = stateWriting
	for _, e := range entries {
		if r.cursor.Exhausted() {
			if err := r.surface.NewPage(); err != nil {
				return nil, nil, &RenderError{Op: "new page", Err: err}
			}
			r.cursor.nextPage()
			r.font, r.size = "", 0
		}
		if err := r.drawEntry(e); err != nil {
			return nil, nil, err
		}
		r.stats.Entries++
	}

	r.state = stateDone
	data, err := r.surface.Save()
	if err != nil {
		return nil, nil, &RenderError{Op: "save", Err: err}
	}
	r.stats.Pages = r.cursor.Page
	return data, &r.stats, nil
}

// RenderNarrative wraps free text to width runes per line and renders each
// line as a label-less flat entry under title
func RenderNarrative(surface Surface, layout Layout, title, text string, width int) ([]byte, *Stats, error) {
	lines := WrapText(text, width)
	entries := make([]models.Entry, len(lines))
	for i, line := range lines {
		entries[i] = models.Entry{Value: line}
	}
	layout.Style = StyleFlat
	return Render(surface, layout, title, entries)
}

func (r *renderer) drawTitle(title string) error {
	if err := r.draw(r.layout.TitleX, r.layout.TitleFont, r.layout.TitleSize, title); err != nil {
		return err
	}
	r.cursor.Advance(r.layout.TitleGap)
	return nil
}

func (r *renderer) drawEntry(e models.Entry) error {
	l := r.layout

	if l.Style == StyleStacked {
		if e.Label != "" {
			if err := r.draw(l.LabelX, l.LabelFont, l.LabelSize, e.Label+":"); err != nil {
				return err
			}
		}
		r.cursor.Advance(l.LabelGap)
		if err := r.draw(l.ValueX, l.ValueFont, l.ValueSize, e.Value); err != nil {
			return err
		}
		r.cursor.Advance(l.LineHeight)
		return nil
	}

	var err error
	if e.Label == "" {
		err = r.draw(l.ValueX, l.ValueFont, l.ValueSize, e.Value)
	} else {
		err = r.draw(l.LabelX, l.LabelFont, l.LabelSize, e.Label+": "+e.Value)
	}
	if err != nil {
		return err
	}
	r.cursor.Advance(l.LineHeight)
	return nil
}

// draw places one line at the cursor, switching fonts only when needed.
// Empty text consumes space without touching the surface.
func (r *renderer) draw(x float64, font string, size float64, text string) error {
	if text == "" {
		return nil
	}
	if font != r.font || size != r.size {
		if err := r.surface.SetFont(font, size); err != nil {
			return &RenderError{Op: "set font", Err: err}
		}
		r.font, r.size = font, size
	}
	if err := r.surface.DrawText(x, r.cursor.Y, text); err != nil {
		return &RenderError{Op: "draw text", Err: err}
	}
	r.stats.Placements = append(r.stats.Placements, Placement{
		Page: r.cursor.Page,
		X:    x,
		Y:    r.cursor.Y,
		Font: font,
		Size: size,
		Text: text,
	})
	return nil
}

// PageCount returns how many pages Render produces for n entries under layout
func PageCount(layout Layout, n int) int {
	c := newCursor(layout)
	c.Advance(layout.TitleGap)
	for i := 0; i < n; i++ {
		if c.Exhausted() {
			c.nextPage()
		}
		c.Advance(layout.EntryHeight())
	}
	return c.Page
}

// WrapText splits text into lines of at most width runes, breaking at
// spaces where possible. Paragraph breaks become empty lines.
func WrapText(text string, width int) []string {
	if width <= 0 {
		width = 90
	}
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var line []rune
		for _, w := range words {
			word := []rune(w)
			for len(word) > width {
				if len(line) > 0 {
					lines = append(lines, string(line))
					line = nil
				}
				lines = append(lines, string(word[:width]))
				word = word[width:]
			}
			switch {
			case len(line) == 0:
				line = word
			case len(line)+1+len(word) <= width:
				line = append(append(line, ' '), word...)
			default:
				lines = append(lines, string(line))
				line = word
			}
		}
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}
	return lines
}
