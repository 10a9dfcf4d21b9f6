package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// Meta is embedded in the PDF information dictionary.
type Meta struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// PDFCanvas draws on an fpdf document in millimetres, A4 portrait. Page
// breaks are never automatic: the layout cursor decides them.
type PDFCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func NewPDFCanvas(meta Meta) *PDFCanvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetKeywords(meta.Keywords, true)
	pdf.SetCreator("pie-reports", true)
	pdf.SetFont(fontFamily, "", 10)

	return &PDFCanvas{
		pdf: pdf,
		// core fonts are cp1252 encoded
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *PDFCanvas) setFont(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *PDFCanvas) StringWidth(text string, size float64, bold bool) float64 {
	c.setFont(size, bold)
	return c.pdf.GetStringWidth(c.tr(text))
}

func (c *PDFCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *PDFCanvas) SetPage(n int) {
	c.pdf.SetPage(n)
}

func (c *PDFCanvas) PageCount() int {
	return c.pdf.PageCount()
}

func (c *PDFCanvas) FillRect(x, y, w, h float64, fill Color) {
	c.pdf.SetFillColor(fill.R, fill.G, fill.B)
	c.pdf.Rect(x, y, w, h, "F")
}

func (c *PDFCanvas) StrokeRect(x, y, w, h float64, stroke Color) {
	c.pdf.SetDrawColor(stroke.R, stroke.G, stroke.B)
	c.pdf.SetLineWidth(0.2)
	c.pdf.Rect(x, y, w, h, "D")
}

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64, stroke Color) {
	c.pdf.SetDrawColor(stroke.R, stroke.G, stroke.B)
	c.pdf.SetLineWidth(0.3)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDFCanvas) Text(x, y float64, text string, font Font) {
	c.setFont(font.Size, font.Bold)
	c.pdf.SetTextColor(font.Color.R, font.Color.G, font.Color.B)
	c.pdf.Text(x, y, c.tr(text))
}

// Err returns the first error recorded by the backend.
func (c *PDFCanvas) Err() error {
	return c.pdf.Error()
}

// Output writes the finished document.
func (c *PDFCanvas) Output(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("pdf output: %w", err)
	}
	return nil
}

// Bytes renders the finished document into memory.
func (c *PDFCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
