package render

import (
	"github.com/mbolis/pie-reports/layout"
	"github.com/mbolis/pie-reports/model"
)

const markerSize = 3.0

// ChecklistItem is one inspection point with its answer: a progress marker,
// the point title, a conformity chip and the answer details beneath. It is
// never split across pages.
type ChecklistItem struct {
	Marker       model.StatusKey
	Title        string
	Required     bool
	Verdict      string
	VerdictKey   model.StatusKey
	Answer       string
	Observations string
	Responsible  string
}

func (it ChecklistItem) textWidth(m layout.Measurer, width float64) float64 {
	w := width - markerSize - 3
	if it.Verdict != "" {
		w -= ChipWidth(m, it.Verdict) + 2
	}
	return w
}

func (it ChecklistItem) parts(m layout.Measurer, width float64) []Paragraph {
	title := it.Title
	if it.Required {
		title += " *"
	}
	ps := []Paragraph{
		{Text: title, Size: BodySize - 1, Bold: true, Color: TextDark, MaxLines: 2},
		{Text: "Resposta: " + orNotSpecified(it.Answer), Size: SmallSize, Color: TextDark, MaxLines: 2},
	}
	if it.Observations != "" {
		ps = append(ps, Paragraph{Text: "Observações: " + it.Observations, Size: SmallSize, Color: TextMuted, MaxLines: 3})
	}
	if it.Responsible != "" {
		ps = append(ps, Paragraph{Text: "Responsável: " + it.Responsible, Size: SmallSize, Color: TextMuted, MaxLines: 1})
	}
	return ps
}

func (it ChecklistItem) Height(m layout.Measurer, width float64) float64 {
	h := 2.0
	for _, p := range it.parts(m, width) {
		h += p.Height(m, it.textWidth(m, width))
	}
	return h
}

func (it ChecklistItem) Draw(c Canvas, x, y, width float64) float64 {
	h := it.Height(c, width)
	c.FillRect(x, y+1.2, markerSize, markerSize, ColorOf(it.Marker))

	tx := x + markerSize + 3
	tw := it.textWidth(c, width)
	top := y
	for _, p := range it.parts(c, width) {
		top += p.Draw(c, tx, top, tw)
	}
	if it.Verdict != "" {
		DrawChip(c, x+width-ChipWidth(c, it.Verdict), y, it.Verdict, it.VerdictKey)
	}
	c.Line(x, y+h-0.5, x+width, y+h-0.5, GridLine)
	return h
}
