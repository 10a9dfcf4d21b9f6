package model

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() (Instance, []Section, []Point, []Response) {
	inst := Instance{ID: 1, Code: "PIE-2026-0001", Title: "Fundações bloco A", Status: StatusDraft}
	sections := []Section{
		{ID: 20, InstanceID: 1, Code: "PIE-2026-0001-S2", Name: "Concretagem", Order: 2},
		{ID: 10, InstanceID: 1, Code: "PIE-2026-0001-S1", Name: "Armação", Order: 1},
	}
	points := []Point{
		{ID: 102, SectionID: 10, Code: "S1-2", Title: "Cobrimento", Type: TypeNumber, Order: 2},
		{ID: 101, SectionID: 10, Code: "S1-1", Title: "Bitola conferida", Type: TypeCheckbox, Order: 1},
		{ID: 201, SectionID: 20, Code: "S2-1", Title: "Slump", Type: TypeNumber, Order: 1},
	}
	responses := []Response{
		{PointID: 101, Value: BoolValue(true), Conformity: Conforming},
		{PointID: 201, Value: NumberValue(10), Conformity: NonConforming},
	}
	return inst, sections, points, responses
}

func TestAssemble(t *testing.T) {
	inst, sections, points, responses := sampleRows()

	tree, err := Assemble(inst, sections, points, responses)
	require.NoError(t, err)

	require.Len(t, tree.Sections, 2)
	assert.Equal(t, "Armação", tree.Sections[0].Name)
	require.Len(t, tree.Sections[0].Points, 2)
	assert.Equal(t, "S1-1", tree.Sections[0].Points[0].Code)
	assert.True(t, tree.Sections[0].Points[0].Answered())
	assert.False(t, tree.Sections[0].Points[1].Answered())
	assert.Len(t, tree.AllPoints(), 3)
}

func TestAssembleRejectsOrphans(t *testing.T) {
	t.Run("response without point", func(t *testing.T) {
		inst, sections, points, responses := sampleRows()
		responses = append(responses, Response{PointID: 999, Conformity: Conforming})

		_, err := Assemble(inst, sections, points, responses)

		var shapeErr *DataShapeError
		require.True(t, errors.As(err, &shapeErr))
		assert.Equal(t, "response", shapeErr.Entity)
	})

	t.Run("point without section", func(t *testing.T) {
		inst, sections, points, responses := sampleRows()
		points = append(points, Point{ID: 300, SectionID: 30, Code: "X", Type: TypeText, Order: 1})

		_, err := Assemble(inst, sections, points, responses)

		var shapeErr *DataShapeError
		require.True(t, errors.As(err, &shapeErr))
		assert.Equal(t, "point", shapeErr.Entity)
	})

	t.Run("two responses for one point", func(t *testing.T) {
		inst, sections, points, responses := sampleRows()
		responses = append(responses, Response{PointID: 101, Conformity: NotApplicable})

		_, err := Assemble(inst, sections, points, responses)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Instance {
		inst, sections, points, responses := sampleRows()
		tree, err := Assemble(inst, sections, points, responses)
		require.NoError(t, err)
		return tree
	}

	cases := []struct {
		name   string
		mutate func(*Instance)
	}{
		{"duplicate section order", func(i *Instance) { i.Sections[1].Order = i.Sections[0].Order }},
		{"duplicate section code", func(i *Instance) { i.Sections[1].Code = i.Sections[0].Code }},
		{"duplicate point code", func(i *Instance) { i.Sections[0].Points[1].Code = "S1-1" }},
		{"decreasing point order", func(i *Instance) { i.Sections[0].Points[1].Order = 0 }},
		{"unknown value type", func(i *Instance) { i.Sections[0].Points[1].Type = "signature" }},
		{"mismatched payload", func(i *Instance) {
			i.Sections[0].Points[0].Response.Value = TextValue("sim")
		}},
		{"response bound to other point", func(i *Instance) {
			i.Sections[0].Points[0].Response.PointID = 555
		}},
		{"empty instance code", func(i *Instance) { i.Code = "" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			inst := valid()
			c.mutate(inst)

			var shapeErr *DataShapeError
			assert.True(t, errors.As(Validate(inst), &shapeErr))
		})
	}

	assert.NoError(t, Validate(valid()))
	assert.NoError(t, Validate(&Instance{Code: "PIE-EMPTY"}))
}

func TestConformityOnlyResponseIsAnswered(t *testing.T) {
	r := &Response{Conformity: NotApplicable}
	assert.True(t, r.Answered())

	var missing *Response
	assert.False(t, missing.Answered())
	assert.False(t, (&Response{Observations: "ver foto"}).Answered())
}

func TestResponseJSON(t *testing.T) {
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("conformity states", func(t *testing.T) {
		cases := map[string]Conformity{
			`{"point_id":1,"conforme":true}`:  Conforming,
			`{"point_id":1,"conforme":false}`: NonConforming,
			`{"point_id":1,"conforme":null}`:  NotApplicable,
			`{"point_id":1}`:                  Unanswered,
		}
		for body, want := range cases {
			var r Response
			require.NoError(t, json.Unmarshal([]byte(body), &r), body)
			assert.Equal(t, want, r.Conformity, body)
		}
	})

	t.Run("typed payloads", func(t *testing.T) {
		values := []Value{
			BoolValue(true),
			TextValue("fissura na laje"),
			NumberValue(32.5),
			DateValue(at),
			OptionValue("B"),
			FilesValue{"foto1.jpg", "foto2.jpg"},
		}
		for _, v := range values {
			b, err := json.Marshal(Response{PointID: 7, Value: v, RespondedAt: at})
			require.NoError(t, err)

			var back Response
			require.NoError(t, json.Unmarshal(b, &back))
			assert.Equal(t, v.Type(), back.Value.Type())
		}
	})

	t.Run("date only", func(t *testing.T) {
		v, err := DecodeValue([]byte(`{"type":"date","data":"2026-05-01"}`))
		require.NoError(t, err)
		assert.Equal(t, 2026, time.Time(v.(DateValue)).Year())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := DecodeValue([]byte(`{"type":"audio","data":"x"}`))
		assert.Error(t, err)
	})
}

func TestCodes(t *testing.T) {
	assert.Equal(t, "PIE-2026-0042", InstanceCode(2026, 42))
	assert.Equal(t, "PIE-2026-0042-S3", SectionCode("PIE-2026-0042", 3))
	assert.Equal(t, "PIE-2026-0042-S3-7", PointCode("PIE-2026-0042-S3", 7))
	assert.Equal(t, "ARM-01", CleanCode("  arm 01 "))
	assert.Equal(t, 1, NextOrder(nil))
	assert.Equal(t, 8, NextOrder([]int{3, 7, 5}))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, KeyApproved, NormalizeStatus("Aprovado"))
	assert.Equal(t, KeyInReview, NormalizeStatus("Em análise"))
	assert.Equal(t, KeyCritical, NormalizeStatus("CRÍTICO"))
	assert.Equal(t, KeyNonConforming, NormalizeStatus("não-conforme"))
	assert.Equal(t, KeyUnknown, NormalizeStatus("whatever"))
}

func TestPredicates(t *testing.T) {
	rec := Record{
		Kind:   KindMaterials,
		Code:   "MAT-0007",
		Title:  "Cimento CP-II",
		Status: "Aprovado",
		Dates:  map[string]time.Time{"received": time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)},
		Text:   map[string]string{"supplier": "Votorantim"},
	}

	assert.Empty(t, Predicates{"status": "", "supplier": "  "}.Active())
	assert.True(t, Predicates{}.Match(rec))
	assert.True(t, Predicates{"status": "approved"}.Match(rec))
	assert.False(t, Predicates{"status": "rejected"}.Match(rec))
	assert.True(t, Predicates{"supplier": "voto"}.Match(rec))
	assert.True(t, Predicates{"received_from": "2026-02-10", "received_to": "2026-02-10"}.Match(rec))
	assert.False(t, Predicates{"received_from": "2026-02-11"}.Match(rec))
	assert.False(t, Predicates{"unknown": "x"}.Match(rec))

	active := Predicates{"b": "2", "a": "1", "c": ""}.Active()
	assert.Equal(t, []Predicate{{"a", "1"}, {"b", "2"}}, active)
}
