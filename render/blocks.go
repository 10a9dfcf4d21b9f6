package render

import (
	"fmt"
	"strings"

	"github.com/mbolis/pie-reports/layout"
	"github.com/mbolis/pie-reports/model"
)

const (
	BodySize   = 10.0
	SmallSize  = 8.0
	LineHeight = 5.0

	KPIWidth  = 40.0
	KPIHeight = 24.0
	kpiGap    = 4.0

	ChipHeight  = 6.0
	chipPadding = 2.0

	RowHeight  = 7.0
	cellPad    = 1.5
	cardPad    = 3.0
	labelWidth = 45.0
	infoLines  = 2
)

// Block is a unit of content with a height known before drawing.
type Block interface {
	Height(m layout.Measurer, width float64) float64
	// Draw renders the block with its top-left corner at (x, y) and returns
	// the height consumed.
	Draw(c Canvas, x, y, width float64) float64
}

// Flow is implemented by blocks that may be split across pages. They reserve
// their own pieces on the cursor.
type Flow interface {
	Flow(c Canvas, cur *layout.Cursor, x, width float64)
}

// Place puts b on the page: flowing blocks lay themselves out, other blocks
// are reserved as a whole and drawn at the reserved position.
func Place(c Canvas, cur *layout.Cursor, x, width float64, b Block) {
	if f, ok := b.(Flow); ok {
		f.Flow(c, cur, x, width)
		return
	}
	h := b.Height(c, width)
	pos, _ := cur.Reserve(h)
	if drawn := b.Draw(c, x, pos.Y, width); drawn != h {
		cur.MoveTo(pos.Y + drawn)
	}
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

// KPI is a single metric shown as a colored card.
type KPI struct {
	Value  string
	Label  string
	Status model.StatusKey
}

// DrawKPICard draws a w×h card: bold value centred over a smaller label.
func DrawKPICard(c Canvas, x, y, w, h float64, kpi KPI) {
	c.FillRect(x, y, w, h, ColorOf(kpi.Status))
	value := Font{Size: 16, Bold: true, Color: White}
	label := Font{Size: SmallSize, Color: White}
	TextIn(c, x, y+3, w, h*0.55, layout.Truncate(c, kpi.Value, w-2*cellPad, value.Size, true), value, "C")
	TextIn(c, x, y+h*0.55, w, h*0.4, layout.Truncate(c, kpi.Label, w-2*cellPad, label.Size, false), label, "C")
}

// KPIRow lays out cards side by side, shrinking them when the row is too
// narrow for the default card width.
type KPIRow struct {
	Cards []KPI
}

func (r KPIRow) Height(layout.Measurer, float64) float64 {
	if len(r.Cards) == 0 {
		return 0
	}
	return KPIHeight
}

func (r KPIRow) Draw(c Canvas, x, y, width float64) float64 {
	n := float64(len(r.Cards))
	if n == 0 {
		return 0
	}
	w := KPIWidth
	if fit := (width - kpiGap*(n-1)) / n; fit < w {
		w = fit
	}
	for i, card := range r.Cards {
		DrawKPICard(c, x+float64(i)*(w+kpiGap), y, w, KPIHeight, card)
	}
	return KPIHeight
}

// ChipWidth is the width of the chip that DrawChip would draw for label.
func ChipWidth(m layout.Measurer, label string) float64 {
	return m.StringWidth(label, SmallSize-1, true) + 2*chipPadding
}

// DrawChip draws a small colored status label and returns its width.
func DrawChip(c Canvas, x, y float64, label string, status model.StatusKey) float64 {
	w := ChipWidth(c, label)
	c.FillRect(x, y, w, ChipHeight, ColorOf(status))
	TextIn(c, x, y, w, ChipHeight, label, Font{Size: SmallSize - 1, Bold: true, Color: White}, "C")
	return w
}

// Field is one label/value pair of an info card.
type Field struct {
	Label string
	Value string
}

// InfoCard is a bounded box of label/value pairs. Each value wraps to at
// most two lines.
type InfoCard struct {
	Title  string
	Fields []Field
}

func (ic InfoCard) valueWidth(width float64) float64 {
	return width - 2*cardPad - labelWidth
}

func (ic InfoCard) lines(m layout.Measurer, width float64) [][]string {
	out := make([][]string, len(ic.Fields))
	for i, f := range ic.Fields {
		out[i] = layout.WrapMax(m, orNotSpecified(f.Value), ic.valueWidth(width), BodySize-1, infoLines)
	}
	return out
}

func (ic InfoCard) Height(m layout.Measurer, width float64) float64 {
	h := 2 * cardPad
	if ic.Title != "" {
		h += LineHeight + 2
	}
	for _, l := range ic.lines(m, width) {
		h += float64(len(l)) * LineHeight
	}
	return h
}

func (ic InfoCard) Draw(c Canvas, x, y, width float64) float64 {
	h := ic.Height(c, width)
	c.FillRect(x, y, width, h, Background)
	c.StrokeRect(x, y, width, h, GridLine)

	top := y + cardPad
	if ic.Title != "" {
		TextIn(c, x+cardPad, top, width, LineHeight, ic.Title, Font{Size: BodySize + 1, Bold: true, Color: Primary}, "L")
		top += LineHeight + 2
	}
	labelFont := Font{Size: SmallSize, Bold: true, Color: TextMuted}
	valueFont := Font{Size: BodySize - 1, Color: TextDark}
	for i, lines := range ic.lines(c, width) {
		label := layout.Truncate(c, ic.Fields[i].Label, labelWidth-2, labelFont.Size, true)
		TextIn(c, x+cardPad, top, labelWidth, LineHeight, label, labelFont, "L")
		for _, line := range lines {
			TextIn(c, x+cardPad+labelWidth, top, ic.valueWidth(width), LineHeight, line, valueFont, "L")
			top += LineHeight
		}
	}
	return h
}

// Paragraph is wrapped text advancing by a fixed line height. It flows line
// by line, so a long paragraph continues at the top of the next page.
type Paragraph struct {
	Text     string
	Size     float64
	Bold     bool
	Color    Color
	MaxLines int
	Indent   float64
}

func (p Paragraph) font() Font {
	size := p.Size
	if size == 0 {
		size = BodySize
	}
	return Font{Size: size, Bold: p.Bold, Color: p.Color}
}

func (p Paragraph) lineHeight() float64 {
	return p.font().Size / BodySize * LineHeight
}

func (p Paragraph) Lines(m layout.Measurer, width float64) []string {
	f := p.font()
	return layout.WrapMax(m, p.Text, width-p.Indent, f.Size, p.MaxLines)
}

func (p Paragraph) Height(m layout.Measurer, width float64) float64 {
	return float64(len(p.Lines(m, width))) * p.lineHeight()
}

func (p Paragraph) Draw(c Canvas, x, y, width float64) float64 {
	lh := p.lineHeight()
	lines := p.Lines(c, width)
	for i, line := range lines {
		TextIn(c, x+p.Indent, y+float64(i)*lh, width-p.Indent, lh, line, p.font(), "L")
	}
	return float64(len(lines)) * lh
}

func (p Paragraph) Flow(c Canvas, cur *layout.Cursor, x, width float64) {
	lh := p.lineHeight()
	for _, line := range p.Lines(c, width) {
		pos, _ := cur.Reserve(lh)
		TextIn(c, x+p.Indent, pos.Y, width-p.Indent, lh, line, p.font(), "L")
	}
}

// Heading is a bold title with a rule beneath.
type Heading struct {
	Text string
}

func (Heading) Height(layout.Measurer, float64) float64 { return 11 }

func (hd Heading) Draw(c Canvas, x, y, width float64) float64 {
	font := Font{Size: 13, Bold: true, Color: Primary}
	TextIn(c, x, y+1, width, 7, layout.Truncate(c, hd.Text, width, font.Size, true), font, "L")
	c.Line(x, y+8.5, x+width, y+8.5, Primary)
	return 11
}

// ProgressBar fills a track proportionally to Percent.
type ProgressBar struct {
	Label   string
	Percent int
}

func (ProgressBar) Height(layout.Measurer, float64) float64 { return 14 }

func (pb ProgressBar) Draw(c Canvas, x, y, width float64) float64 {
	pct := pb.Percent
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	font := Font{Size: BodySize - 1, Bold: true, Color: TextDark}
	TextIn(c, x, y, width, LineHeight, pb.Label, font, "L")
	TextIn(c, x, y, width, LineHeight, fmt.Sprintf("%d%%", pct), font, "R")

	c.FillRect(x, y+LineHeight+1, width, 6, GridLine)
	if pct > 0 {
		c.FillRect(x, y+LineHeight+1, width*float64(pct)/100, 6, ColorOf(progressStatus(pct)))
	}
	return 14
}

func progressStatus(pct int) model.StatusKey {
	switch {
	case pct >= 100:
		return model.KeyCompleted
	case pct >= 50:
		return model.KeyInProgress
	}
	return model.KeyPending
}

// Signature draws one signature line per label.
type Signature struct {
	Labels []string
}

func (Signature) Height(layout.Measurer, float64) float64 { return 30 }

func (s Signature) Draw(c Canvas, x, y, width float64) float64 {
	n := float64(len(s.Labels))
	if n == 0 {
		return 0
	}
	gap := 10.0
	w := (width - gap*(n-1)) / n
	font := Font{Size: SmallSize, Color: TextMuted}
	for i, label := range s.Labels {
		lx := x + float64(i)*(w+gap)
		c.Line(lx, y+20, lx+w, y+20, TextDark)
		TextIn(c, lx, y+21, w, LineHeight, layout.Truncate(c, label, w, font.Size, false), font, "C")
	}
	return 30
}

// Bullets is a list of wrapped items, each flowing on its own.
type Bullets struct {
	Items []string
}

func (b Bullets) paragraphs() []Paragraph {
	ps := make([]Paragraph, len(b.Items))
	for i, item := range b.Items {
		ps[i] = Paragraph{Text: item, Size: BodySize - 1, Color: TextDark, Indent: 5}
	}
	return ps
}

func (b Bullets) Height(m layout.Measurer, width float64) float64 {
	var h float64
	for _, p := range b.paragraphs() {
		h += p.Height(m, width)
	}
	return h
}

func (b Bullets) Draw(c Canvas, x, y, width float64) float64 {
	top := y
	for _, p := range b.paragraphs() {
		c.FillRect(x+1, top+LineHeight/2-0.6, 1.2, 1.2, Secondary)
		top += p.Draw(c, x, top, width)
	}
	return top - y
}

func (b Bullets) Flow(c Canvas, cur *layout.Cursor, x, width float64) {
	for _, p := range b.paragraphs() {
		lines := p.Lines(c, width)
		lh := p.lineHeight()
		for i, line := range lines {
			pos, _ := cur.Reserve(lh)
			if i == 0 {
				c.FillRect(x+1, pos.Y+lh/2-0.6, 1.2, 1.2, Secondary)
			}
			TextIn(c, x+p.Indent, pos.Y, width-p.Indent, lh, line, p.font(), "L")
		}
	}
}
