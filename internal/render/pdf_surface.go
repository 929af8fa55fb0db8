// ABOUTME: PDF implementation of Surface backed by go-pdf/fpdf
// ABOUTME: Converts bottom-left origin coordinates into fpdf's top-left space
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PDFSurface draws onto an in-memory PDF document
type PDFSurface struct {
	pdf        *fpdf.Fpdf
	pageHeight float64
	translate  func(string) string
}

// NewPDFSurface starts a document with one blank page sized for layout
func NewPDFSurface(layout Layout, title string) *PDFSurface {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("finreport", true)
	pdf.AddPage()

	return &PDFSurface{
		pdf:        pdf,
		pageHeight: layout.PageHeight,
		translate:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (s *PDFSurface) SetFont(name string, size float64) error {
	family, style := splitFontName(name)
	s.pdf.SetFont(family, style, size)
	return s.pdf.Error()
}

func (s *PDFSurface) DrawText(x, y float64, text string) error {
	s.pdf.Text(x, s.pageHeight-y, s.translate(text))
	return s.pdf.Error()
}

func (s *PDFSurface) NewPage() error {
	s.pdf.AddPage()
	return s.pdf.Error()
}

func (s *PDFSurface) Save() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// PageCount returns the number of pages added so far
func (s *PDFSurface) PageCount() int {
	return s.pdf.PageCount()
}

// splitFontName maps PostScript-style names like "Helvetica-Bold" onto an
// fpdf family and style string
func splitFontName(name string) (string, string) {
	family, variant, _ := strings.Cut(name, "-")
	style := ""
	switch strings.ToLower(variant) {
	case "bold":
		style = "B"
	case "oblique", "italic":
		style = "I"
	case "boldoblique", "bolditalic":
		style = "BI"
	}
	return family, style
}
