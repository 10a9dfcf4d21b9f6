package layout

import "github.com/mbolis/pie-reports/log"

// Geometry holds the fixed page measures every renderer shares.
type Geometry struct {
	Width  float64
	Height float64
	// Top is where body content starts on every page, below the header band.
	Top float64
	// Footer is the height of the footer band at the bottom of the page.
	Footer float64
	// Margin is kept free between the last block and the footer band.
	Margin float64
}

// Bottom is the lowest offset a block may extend to.
func (g Geometry) Bottom() float64 {
	return g.Height - g.Footer - g.Margin
}

// Position is where a reserved block starts.
type Position struct {
	Page int
	Y    float64
}

// Cursor is the single authority on vertical placement within a document.
// Every variable-height block must be reserved through it before drawing.
type Cursor struct {
	geom    Geometry
	page    int
	y       float64
	breaks  int
	onBreak func(page int)
}

// NewCursor starts at the top of page 1. onBreak, if not nil, is called
// after each page break with the new page number, before the block that
// caused it is placed.
func NewCursor(geom Geometry, onBreak func(page int)) *Cursor {
	return &Cursor{
		geom:    geom,
		page:    1,
		y:       geom.Top,
		onBreak: onBreak,
	}
}

func (c *Cursor) Geometry() Geometry { return c.geom }
func (c *Cursor) Page() int          { return c.page }
func (c *Cursor) Y() float64         { return c.y }

// Breaks counts the page breaks emitted so far.
func (c *Cursor) Breaks() int { return c.breaks }

// Remaining is the space left above the footer band and trailing margin.
func (c *Cursor) Remaining() float64 {
	return c.geom.Bottom() - c.y
}

// AtTop reports whether nothing has been placed on the current page yet.
func (c *Cursor) AtTop() bool {
	return c.y <= c.geom.Top
}

// Fits reports whether a block of height h fits the current page.
func (c *Cursor) Fits(h float64) bool {
	return c.y+h <= c.geom.Bottom()
}

// Reserve claims h units for a block and returns where to draw it. If the
// block does not fit the current page a page break is emitted first. A
// block taller than a fresh page is placed at the top anyway and overflow is
// reported; the caller draws it clipped.
func (c *Cursor) Reserve(h float64) (pos Position, overflow bool) {
	if !c.Fits(h) {
		if !c.AtTop() {
			c.BreakPage()
		}
		if !c.Fits(h) {
			overflow = true
			log.Warnf("layout.overflow: block of %.1f exceeds page %d space of %.1f, drawing clipped", h, c.page, c.Remaining())
		}
	}
	pos = Position{Page: c.page, Y: c.y}
	c.y += h
	return pos, overflow
}

// Skip adds vertical spacing without ever causing a page break. Spacing that
// would run into the bottom margin is dropped.
func (c *Cursor) Skip(h float64) {
	c.y += h
	if c.y > c.geom.Bottom() {
		c.y = c.geom.Bottom()
	}
}

// BreakPage moves to the top of a new page.
func (c *Cursor) BreakPage() {
	c.page++
	c.breaks++
	c.y = c.geom.Top
	log.Debugf("layout.page_break: page %d", c.page)
	if c.onBreak != nil {
		c.onBreak(c.page)
	}
}

// MoveTo sets the offset on the current page, e.g. after a renderer that
// reports its own post-render height. Offsets above the top margin are
// clamped.
func (c *Cursor) MoveTo(y float64) {
	if y < c.geom.Top {
		y = c.geom.Top
	}
	c.y = y
}
