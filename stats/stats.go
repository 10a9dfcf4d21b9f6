// Package stats reduces an inspection tree into completion and conformity
// figures and derives the advisory sequential progress indicators.
package stats

import (
	"math"

	"github.com/mbolis/pie-reports/model"
)

type Summary struct {
	TotalPoints         int `json:"total_points"`
	AnsweredPoints      int `json:"answered_points"`
	ConformingPoints    int `json:"conforming_points"`
	NonConformingPoints int `json:"non_conforming_points"`
	NotApplicablePoints int `json:"not_applicable_points"`
	CompletionPercent   int `json:"completion_percent"`
}

// Pending is the number of points still without an answer.
func (s Summary) Pending() int {
	return s.TotalPoints - s.AnsweredPoints
}

// ConformityPercent is the share of conforming points among those with a
// conforming or non-conforming verdict, 0 when there are none.
func (s Summary) ConformityPercent() int {
	return percent(s.ConformingPoints, s.ConformingPoints+s.NonConformingPoints)
}

// Points reduces a flat list of points.
func Points(points []model.Point) Summary {
	var s Summary
	for _, p := range points {
		s.add(p)
	}
	s.CompletionPercent = percent(s.AnsweredPoints, s.TotalPoints)
	return s
}

// Section reduces the points of one section.
func Section(section model.Section) Summary {
	return Points(section.Points)
}

// Instance reduces every point of every section of inst.
func Instance(inst *model.Instance) Summary {
	if inst == nil {
		return Summary{}
	}
	return Points(inst.AllPoints())
}

// SectionSummary pairs a section with its own figures.
type SectionSummary struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Order   int     `json:"order"`
	Summary Summary `json:"summary"`
}

// BySection returns one summary per section, in section order.
func BySection(inst *model.Instance) []SectionSummary {
	if inst == nil {
		return nil
	}
	out := make([]SectionSummary, 0, len(inst.Sections))
	for _, s := range inst.Sections {
		out = append(out, SectionSummary{
			Code:    s.Code,
			Name:    s.Name,
			Order:   s.Order,
			Summary: Section(s),
		})
	}
	return out
}

func (s *Summary) add(p model.Point) {
	s.TotalPoints++
	if !p.Answered() {
		return
	}
	s.AnsweredPoints++
	switch p.Response.Conformity {
	case model.Conforming:
		s.ConformingPoints++
	case model.NonConforming:
		s.NonConformingPoints++
	case model.NotApplicable:
		s.NotApplicablePoints++
	}
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
