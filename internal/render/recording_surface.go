// ABOUTME: In-memory Surface that records every drawing operation
// ABOUTME: Used for dry runs and for asserting placements in tests
package render

import (
	"fmt"
	"strings"
)

// Op is one recorded surface call
type Op struct {
	Kind string
	Page int
	X, Y float64
	Font string
	Size float64
	Text string
}

// RecordingSurface keeps the operations it receives and saves them as a
// plain-text listing. Setting Fail makes the named operation kind return
// that error.
type RecordingSurface struct {
	Ops  []Op
	Fail map[string]error

	page int
	font string
	size float64
}

// NewRecordingSurface returns a surface positioned on page 1
func NewRecordingSurface() *RecordingSurface {
	return &RecordingSurface{page: 1}
}

func (s *RecordingSurface) fail(kind string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail[kind]
}

func (s *RecordingSurface) SetFont(name string, size float64) error {
	if err := s.fail("font"); err != nil {
		return err
	}
	s.font, s.size = name, size
	s.Ops = append(s.Ops, Op{Kind: "font", Page: s.page, Font: name, Size: size})
	return nil
}

func (s *RecordingSurface) DrawText(x, y float64, text string) error {
	if err := s.fail("text"); err != nil {
		return err
	}
	s.Ops = append(s.Ops, Op{Kind: "text", Page: s.page, X: x, Y: y, Font: s.font, Size: s.size, Text: text})
	return nil
}

func (s *RecordingSurface) NewPage() error {
	if err := s.fail("page"); err != nil {
		return err
	}
	s.page++
	s.Ops = append(s.Ops, Op{Kind: "page", Page: s.page})
	return nil
}

func (s *RecordingSurface) Save() ([]byte, error) {
	if err := s.fail("save"); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, op := range s.Ops {
		if op.Kind != "text" {
			continue
		}
		fmt.Fprintf(&b, "p%d %6.1f %6.1f %s/%g %s\n", op.Page, op.X, op.Y, op.Font, op.Size, op.Text)
	}
	return []byte(b.String()), nil
}

// Pages returns the number of pages the surface has seen
func (s *RecordingSurface) Pages() int { return s.page }

// Texts returns the drawn strings in order
func (s *RecordingSurface) Texts() []string {
	var out []string
	for _, op := range s.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}
