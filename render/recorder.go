package render

import (
	"fmt"
	"strings"

	"github.com/mbolis/pie-reports/layout"
)

// Op is one drawing call captured by a Recorder.
type Op struct {
	Page int
	Kind string // "rect", "stroke", "line" or "text"
	X, Y float64
	W, H float64
	Text string
	Font Font
	Fill Color
}

func (op Op) String() string {
	if op.Kind == "text" {
		return fmt.Sprintf("p%d text(%.1f,%.1f) %q", op.Page, op.X, op.Y, op.Text)
	}
	return fmt.Sprintf("p%d %s(%.1f,%.1f %.1fx%.1f)", op.Page, op.Kind, op.X, op.Y, op.W, op.H)
}

// Recorder is a Canvas that only records what would be drawn. It measures
// text with a metrics table, which makes layouts reproducible without a
// document backend.
type Recorder struct {
	Metrics layout.Metrics
	Width   float64
	Height  float64
	Ops     []Op

	pages int
	page  int
}

// NewRecorder returns an A4 recorder measuring with the given metrics.
func NewRecorder(m layout.Metrics) *Recorder {
	return &Recorder{Metrics: m, Width: 210, Height: 297}
}

func (r *Recorder) StringWidth(text string, size float64, bold bool) float64 {
	return r.Metrics.StringWidth(text, size, bold)
}

func (r *Recorder) PageSize() (float64, float64) { return r.Width, r.Height }

func (r *Recorder) AddPage() {
	r.pages++
	r.page = r.pages
}

func (r *Recorder) SetPage(n int)  { r.page = n }
func (r *Recorder) PageCount() int { return r.pages }

func (r *Recorder) FillRect(x, y, w, h float64, fill Color) {
	r.Ops = append(r.Ops, Op{Page: r.page, Kind: "rect", X: x, Y: y, W: w, H: h, Fill: fill})
}

func (r *Recorder) StrokeRect(x, y, w, h float64, stroke Color) {
	r.Ops = append(r.Ops, Op{Page: r.page, Kind: "stroke", X: x, Y: y, W: w, H: h, Fill: stroke})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, stroke Color) {
	r.Ops = append(r.Ops, Op{Page: r.page, Kind: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Fill: stroke})
}

func (r *Recorder) Text(x, y float64, text string, font Font) {
	r.Ops = append(r.Ops, Op{Page: r.page, Kind: "text", X: x, Y: y, Text: text, Font: font})
}

// Texts returns the text drawn on page, or on every page when page is 0.
func (r *Recorder) Texts(page int) []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" && (page == 0 || op.Page == page) {
			out = append(out, op.Text)
		}
	}
	return out
}

// Find returns the first text op whose text equals s.
func (r *Recorder) Find(s string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Kind == "text" && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

func (r *Recorder) Err() error { return nil }

// Bytes dumps the recorded operations, one per line.
func (r *Recorder) Bytes() ([]byte, error) {
	var b strings.Builder
	for _, op := range r.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
