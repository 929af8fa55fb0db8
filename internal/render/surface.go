// ABOUTME: Drawing surface abstraction the report renderer writes to
// ABOUTME: Coordinates are PDF points with the origin at the bottom-left corner
package render

import "fmt"

// Surface is a page-oriented drawing target. Y grows upward from the
// bottom edge of the page, as in PDF user space.
type Surface interface {
	SetFont(name string, size float64) error
	DrawText(x, y float64, text string) error
	NewPage() error
	Save() ([]byte, error)
}

// RenderError reports a surface operation that failed while rendering
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
