// Package render draws report blocks on a page canvas. Every block is
// stateless: it reports the height it needs and draws itself at a position
// handed out by a layout.Cursor.
package render

import (
	"github.com/mbolis/pie-reports/layout"
)

type Color struct {
	R, G, B int
}

type Font struct {
	Size  float64
	Bold  bool
	Color Color
}

// Canvas is the drawing surface of a document backend.
type Canvas interface {
	layout.Measurer

	PageSize() (width, height float64)
	AddPage()
	SetPage(n int)
	PageCount() int

	FillRect(x, y, w, h float64, fill Color)
	StrokeRect(x, y, w, h float64, stroke Color)
	Line(x1, y1, x2, y2 float64, stroke Color)
	// Text draws a single line with its baseline at y.
	Text(x, y float64, text string, font Font)
}

// baseline returns the baseline offset that vertically centres text of the
// given point size inside a box of height h.
func baseline(top, h, size float64) float64 {
	return top + h/2 + size*layout.PointsToUnits*0.35
}

// TextIn draws text vertically centred in the box starting at top, aligned
// within [x, x+w] according to align ("L", "C" or "R").
func TextIn(c Canvas, x, top, w, h float64, text string, font Font, align string) {
	tx := x
	switch align {
	case "C":
		tx = x + (w-c.StringWidth(text, font.Size, font.Bold))/2
	case "R":
		tx = x + w - c.StringWidth(text, font.Size, font.Bold)
	}
	c.Text(tx, baseline(top, h, font.Size), text, font)
}

// Surface is a Canvas that produces a finished document.
type Surface interface {
	Canvas
	// Err returns the first error the backend ran into while drawing.
	Err() error
	Bytes() ([]byte, error)
}
