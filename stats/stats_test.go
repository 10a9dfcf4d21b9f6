package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/pie-reports/model"
)

func point(order int, r *model.Response) model.Point {
	return model.Point{ID: int64(order), Order: order, Type: model.TypeCheckbox, Response: r}
}

func verdict(c model.Conformity) *model.Response {
	return &model.Response{Conformity: c}
}

func TestSectionMixedAnswers(t *testing.T) {
	s := model.Section{Points: []model.Point{
		point(1, verdict(model.Conforming)),
		point(2, verdict(model.NonConforming)),
		point(3, nil),
	}}

	got := Section(s)

	assert.Equal(t, Summary{
		TotalPoints:         3,
		AnsweredPoints:      2,
		ConformingPoints:    1,
		NonConformingPoints: 1,
		CompletionPercent:   67,
	}, got)
	assert.Equal(t, 1, got.Pending())
	assert.Equal(t, 50, got.ConformityPercent())
}

func TestEmptyInputs(t *testing.T) {
	assert.Equal(t, Summary{}, Instance(&model.Instance{}))
	assert.Equal(t, Summary{}, Instance(nil))
	assert.Equal(t, Summary{}, Section(model.Section{}))
	assert.Equal(t, 0, Summary{}.ConformityPercent())
	assert.Empty(t, BySection(&model.Instance{}))
}

func TestValueOnlyAndVerdictOnlyCountAsAnswered(t *testing.T) {
	s := model.Section{Points: []model.Point{
		point(1, &model.Response{Value: model.BoolValue(false)}),
		point(2, verdict(model.NotApplicable)),
		point(3, &model.Response{Observations: "sem valor"}),
	}}

	got := Section(s)
	assert.Equal(t, 2, got.AnsweredPoints)
	assert.Equal(t, 1, got.NotApplicablePoints)
	assert.Equal(t, 0, got.ConformingPoints)
}

func randomInstance(rnd *rand.Rand) *model.Instance {
	inst := &model.Instance{Code: "PIE"}
	for s := 0; s < rnd.Intn(6); s++ {
		section := model.Section{Code: string(rune('A' + s)), Order: s + 1}
		for p := 0; p < rnd.Intn(12); p++ {
			var r *model.Response
			switch rnd.Intn(6) {
			case 0:
			case 1:
				r = &model.Response{Value: model.TextValue("ok")}
			case 2:
				r = &model.Response{Observations: "only notes"}
			default:
				r = verdict(model.Conformity(rnd.Intn(4)))
			}
			section.Points = append(section.Points, point(p+1, r))
		}
		inst.Sections = append(inst.Sections, section)
	}
	return inst
}

func TestSoundness(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		inst := randomInstance(rnd)

		s := Instance(inst)

		verdicts := s.ConformingPoints + s.NonConformingPoints + s.NotApplicablePoints
		assert.LessOrEqual(t, verdicts, s.AnsweredPoints)
		assert.LessOrEqual(t, s.AnsweredPoints, s.TotalPoints)
		if s.TotalPoints == 0 {
			assert.Equal(t, 0, s.CompletionPercent)
		} else {
			want := int(math.Round(float64(s.AnsweredPoints) / float64(s.TotalPoints) * 100))
			assert.Equal(t, want, s.CompletionPercent)
		}

		// idempotent, and the whole equals the sum of its sections
		assert.Equal(t, s, Instance(inst))
		var total, answered int
		for _, sec := range BySection(inst) {
			total += sec.Summary.TotalPoints
			answered += sec.Summary.AnsweredPoints
		}
		assert.Equal(t, s.TotalPoints, total)
		assert.Equal(t, s.AnsweredPoints, answered)
	}
}

func TestIndicators(t *testing.T) {
	s := model.Section{Points: []model.Point{
		point(1, verdict(model.Conforming)),
		point(2, nil),
		point(3, verdict(model.Conforming)),
		point(4, nil),
	}}

	assert.Equal(t, []Indicator{
		IndicatorCompleted,
		IndicatorPending,
		IndicatorWarning,
		IndicatorWarning,
	}, Indicators(s))
}

func TestIndicatorsIgnoreSliceOrder(t *testing.T) {
	s := model.Section{Points: []model.Point{
		point(3, nil),
		point(1, nil),
		point(2, verdict(model.Conforming)),
	}}

	got := Indicators(s)
	assert.Equal(t, []Indicator{IndicatorWarning, IndicatorPending, IndicatorWarning}, got)
	for i, p := range s.Points {
		want := IndicatorPending
		if p.Answered() {
			want = IndicatorCompleted
		}
		for _, earlier := range s.Points {
			if earlier.Order < p.Order && !earlier.Answered() {
				want = IndicatorWarning
			}
		}
		assert.Equal(t, want, got[i])
	}
}

func rank(i Indicator) int {
	switch i {
	case IndicatorWarning:
		return 0
	case IndicatorPending:
		return 1
	}
	return 2
}

func TestIndicatorMonotonicity(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for n := 0; n < 300; n++ {
		var s model.Section
		for p := 0; p < 1+rnd.Intn(10); p++ {
			var r *model.Response
			if rnd.Intn(2) == 0 {
				r = verdict(model.Conforming)
			}
			s.Points = append(s.Points, point(p+1, r))
		}
		before := Indicators(s)

		var unanswered []int
		for i, p := range s.Points {
			if !p.Answered() {
				unanswered = append(unanswered, i)
			}
		}
		if len(unanswered) == 0 {
			continue
		}
		flip := unanswered[rnd.Intn(len(unanswered))]
		s.Points[flip].Response = verdict(model.NonConforming)
		after := Indicators(s)

		require.Len(t, after, len(before))
		for i := flip + 1; i < len(s.Points); i++ {
			assert.GreaterOrEqual(t, rank(after[i]), rank(before[i]))
		}
	}
}
