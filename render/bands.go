package render

import (
	"fmt"

	"github.com/mbolis/pie-reports/layout"
)

const (
	HeaderBand = 40.0
	FooterBand = 20.0
	SideMargin = 15.0
)

// Header is the band drawn across the top of every page.
type Header struct {
	Organization string
	Title        string
	Subtitle     string
}

func DrawHeader(c Canvas, h Header) {
	w, _ := c.PageSize()
	c.FillRect(0, 0, w, HeaderBand-8, Primary)
	c.FillRect(0, HeaderBand-8, w, 1.5, Secondary)

	inner := w - 2*SideMargin
	if h.Organization != "" {
		TextIn(c, SideMargin, 5, inner, 5, h.Organization, Font{Size: SmallSize, Bold: true, Color: GridLine}, "L")
	}
	TextIn(c, SideMargin, 11, inner, 8, layout.Truncate(c, h.Title, inner, 16, true), Font{Size: 16, Bold: true, Color: White}, "L")
	if h.Subtitle != "" {
		TextIn(c, SideMargin, 20, inner, 6, layout.Truncate(c, h.Subtitle, inner, BodySize, false), Font{Size: BodySize, Color: White}, "L")
	}
}

// Footer is stamped on every page once the page count is known.
type Footer struct {
	Left  string
	Right string
}

// StampFooters revisits every page and draws the footer band with a
// "Página X de Y" counter.
func StampFooters(c Canvas, f Footer) {
	w, h := c.PageSize()
	total := c.PageCount()
	font := Font{Size: SmallSize - 1, Color: TextMuted}
	top := h - FooterBand
	inner := w - 2*SideMargin
	for page := 1; page <= total; page++ {
		c.SetPage(page)
		c.Line(SideMargin, top+4, w-SideMargin, top+4, GridLine)
		TextIn(c, SideMargin, top+6, inner, 5, f.Left, font, "L")
		TextIn(c, SideMargin, top+6, inner, 5, fmt.Sprintf("Página %d de %d", page, total), font, "C")
		TextIn(c, SideMargin, top+6, inner, 5, f.Right, font, "R")
	}
	c.SetPage(total)
}
