// Package layout measures and wraps text and tracks the vertical position of
// content on fixed-size pages.
package layout

import (
	"strings"
	"unicode/utf8"
)

const Ellipsis = "…"

// Measurer returns the rendered width of text in page units.
type Measurer interface {
	StringWidth(text string, size float64, bold bool) float64
}

// PointsToUnits converts a font size in points to millimetres.
const PointsToUnits = 25.4 / 72

// Metrics is a font-metrics table: rune advances in thousandths of an em.
// Runes missing from Widths use Default; bold text is scaled by BoldFactor.
type Metrics struct {
	Widths     map[rune]float64
	Default    float64
	BoldFactor float64
}

// Monospace returns metrics where every rune advances by the same amount.
func Monospace(advance float64) Metrics {
	return Metrics{Default: advance, BoldFactor: 1}
}

func (m Metrics) StringWidth(text string, size float64, bold bool) float64 {
	var units float64
	for _, r := range text {
		w, ok := m.Widths[r]
		if !ok {
			w = m.Default
		}
		units += w
	}
	if bold && m.BoldFactor > 0 {
		units *= m.BoldFactor
	}
	return units * size / 1000 * PointsToUnits
}

// Wrap greedily fills lines with the whitespace separated words of text so
// that no line is wider than maxWidth. A single word wider than maxWidth is
// truncated with an ellipsis and put on its own line.
func Wrap(m Measurer, text string, maxWidth, size float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		if m.StringWidth(word, size, false) > maxWidth {
			if line != "" {
				lines = append(lines, line)
			}
			lines = append(lines, Truncate(m, word, maxWidth, size, false))
			line = ""
			continue
		}
		if line == "" {
			line = word
			continue
		}
		test := line + " " + word
		if m.StringWidth(test, size, false) <= maxWidth {
			line = test
			continue
		}
		lines = append(lines, line)
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// WrapMax wraps text like Wrap but keeps at most maxLines lines; when lines
// are dropped the last kept line is shortened to end with an ellipsis.
func WrapMax(m Measurer, text string, maxWidth, size float64, maxLines int) []string {
	lines := Wrap(m, text, maxWidth, size)
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	if last := lines[maxLines-1]; !strings.HasSuffix(last, Ellipsis) {
		lines[maxLines-1] = Truncate(m, last+Ellipsis, maxWidth, size, false)
	}
	return lines
}

// Truncate shortens text rune by rune until text plus an ellipsis fits
// maxWidth. Text that already fits is returned unchanged.
func Truncate(m Measurer, text string, maxWidth, size float64, bold bool) string {
	if m.StringWidth(text, size, bold) <= maxWidth {
		return text
	}
	for text != "" {
		_, n := utf8.DecodeLastRuneInString(text)
		text = text[:len(text)-n]
		candidate := strings.TrimRight(text, " ") + Ellipsis
		if m.StringWidth(candidate, size, bold) <= maxWidth {
			return candidate
		}
	}
	return Ellipsis
}
