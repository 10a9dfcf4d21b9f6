package layout

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 500/1000 em at 10pt is 5pt, i.e. about 1.76mm per rune.
var mono = Monospace(500)

func runeWidth(size float64) float64 {
	return mono.StringWidth("x", size, false)
}

func TestMetricsStringWidth(t *testing.T) {
	assert.InDelta(t, 5*PointsToUnits, mono.StringWidth("a", 10, false), 1e-9)
	assert.InDelta(t, 3*mono.StringWidth("a", 10, false), mono.StringWidth("abc", 10, false), 1e-9)

	m := Metrics{Widths: map[rune]float64{'i': 250}, Default: 500, BoldFactor: 1.1}
	assert.Less(t, m.StringWidth("iii", 10, false), m.StringWidth("aaa", 10, false))
	assert.Greater(t, m.StringWidth("aaa", 10, true), m.StringWidth("aaa", 10, false))
}

func TestWrap(t *testing.T) {
	w := runeWidth(10)

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Wrap(mono, "", 100, 10))
		assert.Empty(t, Wrap(mono, "   \n\t ", 100, 10))
	})

	t.Run("greedy fill", func(t *testing.T) {
		// 11 runes per line
		lines := Wrap(mono, "aaa bbb ccc ddd eee", 11*w+0.01, 10)
		assert.Equal(t, []string{"aaa bbb ccc", "ddd eee"}, lines)
	})

	t.Run("long token truncated", func(t *testing.T) {
		lines := Wrap(mono, "ok superlongtokenwithoutspaces end", 8*w+0.01, 10)
		require.Len(t, lines, 3)
		assert.Equal(t, "ok", lines[0])
		assert.Equal(t, "superlo"+Ellipsis, lines[1])
		assert.Equal(t, "end", lines[2])
	})

	t.Run("truncated token keeps its own line", func(t *testing.T) {
		// W is four times as wide as any other rune
		m := Metrics{Widths: map[rune]float64{'W': 2000}, Default: 500, BoldFactor: 1}
		lines := Wrap(m, "WWWW a", 11*w+0.01, 10)
		assert.Equal(t, []string{"WW" + Ellipsis, "a"}, lines)
	})

	t.Run("width smaller than ellipsis", func(t *testing.T) {
		lines := Wrap(mono, "abc", w/2, 10)
		assert.Equal(t, []string{Ellipsis}, lines)
	})
}

func TestWrapProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	letters := "abcdefghijklmnopqrstuvwxyzçãé"
	alphabet := []rune(letters)

	for i := 0; i < 300; i++ {
		var words []string
		for n := rnd.Intn(40); n > 0; n-- {
			word := make([]rune, 1+rnd.Intn(14))
			for j := range word {
				word[j] = alphabet[rnd.Intn(len(alphabet))]
			}
			words = append(words, string(word))
		}
		text := strings.Join(words, strings.Repeat(" ", 1+rnd.Intn(3)))
		maxWidth := runeWidth(10) * float64(4+rnd.Intn(30))

		lines := Wrap(mono, text, maxWidth, 10)

		var got []string
		for _, line := range lines {
			assert.LessOrEqual(t, mono.StringWidth(line, 10, false), maxWidth, line)
			got = append(got, strings.Fields(line)...)
		}
		require.Len(t, got, len(words))
		for j, word := range words {
			if strings.HasSuffix(got[j], Ellipsis) {
				assert.True(t, strings.HasPrefix(word, strings.TrimSuffix(got[j], Ellipsis)))
				continue
			}
			assert.Equal(t, word, got[j])
		}
	}
}

func TestWrapMax(t *testing.T) {
	w := runeWidth(10)
	text := "um dois tres quatro cinco seis sete oito nove dez"

	lines := WrapMax(mono, text, 10*w+0.01, 10, 2)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], Ellipsis))
	assert.LessOrEqual(t, mono.StringWidth(lines[1], 10, false), 10*w+0.01)

	assert.Equal(t, []string{"um dois"}, WrapMax(mono, "um dois", 10*w, 10, 2))
}

var a4 = Geometry{Width: 210, Height: 297, Top: 50, Footer: 20, Margin: 10}

func TestCursorReserve(t *testing.T) {
	var broken []int
	c := NewCursor(a4, func(page int) { broken = append(broken, page) })

	pos, overflow := c.Reserve(100)
	assert.False(t, overflow)
	assert.Equal(t, Position{Page: 1, Y: 50}, pos)
	assert.Equal(t, 150.0, c.Y())

	// 150 + 120 > 267
	pos, overflow = c.Reserve(120)
	assert.False(t, overflow)
	assert.Equal(t, Position{Page: 2, Y: 50}, pos)
	assert.Equal(t, []int{2}, broken)
	assert.Equal(t, 1, c.Breaks())

	// exactly fills the page
	pos, _ = c.Reserve(97)
	assert.Equal(t, 2, pos.Page)
	assert.Equal(t, 0.0, c.Remaining())
}

func TestCursorOverflowGuard(t *testing.T) {
	c := NewCursor(a4, nil)
	c.Reserve(10)

	pos, overflow := c.Reserve(500)
	assert.True(t, overflow)
	assert.Equal(t, Position{Page: 2, Y: 50}, pos)

	// the oversized block is not retried on yet another page
	assert.Equal(t, 1, c.Breaks())

	pos, overflow = c.Reserve(10)
	assert.False(t, overflow)
	assert.Equal(t, 3, pos.Page)
}

func TestCursorSkipNeverBreaks(t *testing.T) {
	c := NewCursor(a4, nil)
	c.Skip(1000)
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, a4.Bottom(), c.Y())

	c.MoveTo(10)
	assert.Equal(t, a4.Top, c.Y())
}

func TestCursorPaginationSafety(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	c := NewCursor(a4, nil)
	for i := 0; i < 2000; i++ {
		h := 1 + rnd.Float64()*80
		_, overflow := c.Reserve(h)
		require.False(t, overflow)
		assert.GreaterOrEqual(t, a4.Height-c.Y(), a4.Footer+a4.Margin-1e-9)
	}
}

func TestParagraphContinuesAtTopMargin(t *testing.T) {
	c := NewCursor(a4, nil)
	c.Reserve(200) // y = 250, 17 units left before the bottom limit

	const lineHeight = 5.0
	var positions []Position
	for i := 0; i < 10; i++ {
		pos, _ := c.Reserve(lineHeight)
		positions = append(positions, pos)
	}

	assert.Equal(t, 1, c.Breaks())
	assert.Equal(t, 1, positions[2].Page)
	assert.Equal(t, Position{Page: 2, Y: a4.Top}, positions[3])
}
