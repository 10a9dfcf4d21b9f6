package render

import (
	"github.com/mbolis/pie-reports/layout"
	"github.com/mbolis/pie-reports/model"
)

type Column struct {
	Title string
	Width float64
	Align string
	// Chip renders the cell as a status chip colored by its value.
	Chip bool
}

// Table is a header row plus striped single-line body rows. When a page
// break falls inside the table the header is drawn again at the top of the
// continuation page.
type Table struct {
	Columns []Column
	Rows    [][]string
	// Empty is shown in place of the body when there are no rows.
	Empty string
}

// widths scales the caller supplied column widths to the available width.
func (t Table) widths(width float64) []float64 {
	var total float64
	for _, col := range t.Columns {
		total += col.Width
	}
	out := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		if total <= 0 {
			out[i] = width / float64(len(t.Columns))
			continue
		}
		out[i] = col.Width * width / total
	}
	return out
}

func (t Table) bodyRows() int {
	if len(t.Rows) == 0 {
		return 1
	}
	return len(t.Rows)
}

func (t Table) Height(_ layout.Measurer, _ float64) float64 {
	return RowHeight * float64(1+t.bodyRows())
}

func (t Table) Draw(c Canvas, x, y, width float64) float64 {
	widths := t.widths(width)
	t.drawHeader(c, x, y, widths)
	top := y + RowHeight
	if len(t.Rows) == 0 {
		t.drawEmpty(c, x, top, width)
		return RowHeight * 2
	}
	for i, row := range t.Rows {
		t.drawRow(c, x, top, widths, row, i%2 == 1)
		top += RowHeight
	}
	return top - y
}

// Flow keeps the header together with the first body row and re-emits it
// after every page break.
func (t Table) Flow(c Canvas, cur *layout.Cursor, x, width float64) {
	widths := t.widths(width)
	header := func() {
		pos, _ := cur.Reserve(RowHeight)
		t.drawHeader(c, x, pos.Y, widths)
	}

	if !cur.Fits(2*RowHeight) && !cur.AtTop() {
		cur.BreakPage()
	}
	header()
	if len(t.Rows) == 0 {
		pos, _ := cur.Reserve(RowHeight)
		t.drawEmpty(c, x, pos.Y, width)
		return
	}

	stripe := false
	for _, row := range t.Rows {
		if !cur.Fits(RowHeight) {
			cur.BreakPage()
			header()
			stripe = false
		}
		pos, _ := cur.Reserve(RowHeight)
		t.drawRow(c, x, pos.Y, widths, row, stripe)
		stripe = !stripe
	}
}

func (t Table) drawHeader(c Canvas, x, y float64, widths []float64) {
	font := Font{Size: SmallSize, Bold: true, Color: White}
	for i, col := range t.Columns {
		c.FillRect(x, y, widths[i], RowHeight, TableHeader)
		title := layout.Truncate(c, col.Title, widths[i]-2*cellPad, font.Size, true)
		TextIn(c, x+cellPad, y, widths[i]-2*cellPad, RowHeight, title, font, align(col))
		x += widths[i]
	}
}

func (t Table) drawRow(c Canvas, x, y float64, widths []float64, row []string, stripe bool) {
	fill := White
	if stripe {
		fill = TableAlt
	}
	font := Font{Size: SmallSize, Color: TextDark}
	for i, col := range t.Columns {
		c.FillRect(x, y, widths[i], RowHeight, fill)
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		inner := widths[i] - 2*cellPad
		switch {
		case col.Chip && cell != "":
			label := layout.Truncate(c, StatusLabel(cell), inner-2*chipPadding, SmallSize-1, true)
			DrawChip(c, x+cellPad, y+(RowHeight-ChipHeight)/2, label, model.NormalizeStatus(cell))
		default:
			TextIn(c, x+cellPad, y, inner, RowHeight, layout.Truncate(c, cell, inner, font.Size, false), font, align(col))
		}
		x += widths[i]
	}
	c.Line(x-sum(widths), y+RowHeight, x, y+RowHeight, GridLine)
}

func (t Table) drawEmpty(c Canvas, x, y, width float64) {
	msg := t.Empty
	if msg == "" {
		msg = "Nenhum registro encontrado"
	}
	TextIn(c, x, y, width, RowHeight, msg, Font{Size: SmallSize, Color: TextMuted}, "C")
}

func align(col Column) string {
	if col.Align == "" {
		return "L"
	}
	return col.Align
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
