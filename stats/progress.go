package stats

import (
	"sort"

	"github.com/mbolis/pie-reports/model"
)

// Indicator is the advisory progress marker of a point. It never blocks an
// answer from being recorded.
type Indicator string

const (
	IndicatorCompleted Indicator = "completed"
	IndicatorPending   Indicator = "pending"
	IndicatorWarning   Indicator = "warning"
)

// Indicators computes the marker of every point of section, in the order
// the points appear in the slice. A point gets a warning when any point with
// a lower order is still unanswered; otherwise it is completed when answered
// and pending when not.
func Indicators(section model.Section) []Indicator {
	orders := make([]int, len(section.Points))
	for i, p := range section.Points {
		orders[i] = p.Order
	}
	sorted := make([]int, len(section.Points))
	for i := range sorted {
		sorted[i] = i
	}
	sort.SliceStable(sorted, func(a, b int) bool { return orders[sorted[a]] < orders[sorted[b]] })

	out := make([]Indicator, len(section.Points))
	gap := false
	for k := 0; k < len(sorted); {
		// points sharing an order do not gate each other
		end := k
		for end < len(sorted) && orders[sorted[end]] == orders[sorted[k]] {
			end++
		}
		groupGap := false
		for _, i := range sorted[k:end] {
			p := section.Points[i]
			switch {
			case gap:
				out[i] = IndicatorWarning
			case p.Answered():
				out[i] = IndicatorCompleted
			default:
				out[i] = IndicatorPending
			}
			if !p.Answered() {
				groupGap = true
			}
		}
		gap = gap || groupGap
		k = end
	}
	return out
}
