package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/pie-reports/model"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db)
	s.Now = func() time.Time { return now }
	return s
}

// seed builds an instance with two sections of two points each.
func seed(t *testing.T, s *Store) *model.Instance {
	t.Helper()
	ctx := context.Background()

	inst, err := s.CreateInstance(ctx, model.Instance{Title: "Fundações bloco A", Responsible: "Ana"})
	require.NoError(t, err)
	for _, name := range []string{"Armação", "Concretagem"} {
		sec, err := s.AddSection(ctx, inst.ID, model.Section{Name: name, Active: true})
		require.NoError(t, err)
		_, err = s.AddPoint(ctx, sec.ID, model.Point{Title: "Bitola", Type: model.TypeCheckbox})
		require.NoError(t, err)
		_, err = s.AddPoint(ctx, sec.ID, model.Point{Title: "Cobrimento", Type: model.TypeNumber})
		require.NoError(t, err)
	}
	full, err := s.FetchInstance(ctx, inst.ID)
	require.NoError(t, err)
	return full
}

func TestCreateInstanceCodes(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first, err := s.CreateInstance(ctx, model.Instance{Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, "PIE-2026-0001", first.Code)
	assert.Equal(t, model.StatusDraft, first.Status)
	assert.Equal(t, model.PriorityMedium, first.Priority)

	second, err := s.CreateInstance(ctx, model.Instance{Title: "B", Status: model.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, "PIE-2026-0002", second.Code)
	assert.Equal(t, model.StatusDraft, second.Status, "new instances start as drafts")

	custom, err := s.CreateInstance(ctx, model.Instance{Title: "C", Code: "obra 12/b"})
	require.NoError(t, err)
	assert.Equal(t, "OBRA-12-B", custom.Code)

	_, err = s.CreateInstance(ctx, model.Instance{Title: "D", Code: "OBRA-12-B"})
	var shapeErr *model.DataShapeError
	require.ErrorAs(t, err, &shapeErr)

	_, err = s.CreateInstance(ctx, model.Instance{Title: "  "})
	require.ErrorAs(t, err, &shapeErr)

	list, err := s.ListInstances(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestHierarchyAppendOrder(t *testing.T) {
	s := openStore(t)
	inst := seed(t, s)

	require.Len(t, inst.Sections, 2)
	assert.Equal(t, "PIE-2026-0001-S1", inst.Sections[0].Code)
	assert.Equal(t, 1, inst.Sections[0].Order)
	assert.Equal(t, "PIE-2026-0001-S2", inst.Sections[1].Code)
	assert.Equal(t, 2, inst.Sections[1].Order)

	points := inst.Sections[1].Points
	require.Len(t, points, 2)
	assert.Equal(t, "PIE-2026-0001-S2-1", points[0].Code)
	assert.Equal(t, "PIE-2026-0001-S2-2", points[1].Code)
	assert.Equal(t, []int{1, 2}, []int{points[0].Order, points[1].Order})

	// appending after a deletion still goes past the maximum
	ctx := context.Background()
	require.NoError(t, s.DeletePoint(ctx, points[0].ID))
	p, err := s.AddPoint(ctx, inst.Sections[1].ID, model.Point{Title: "Slump", Type: model.TypeNumber})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Order)
	assert.Equal(t, "PIE-2026-0001-S2-3", p.Code)

	_, err = s.AddPoint(ctx, inst.Sections[1].ID, model.Point{Title: "Dup", Code: p.Code, Type: model.TypeText})
	var shapeErr *model.DataShapeError
	require.ErrorAs(t, err, &shapeErr)

	_, err = s.AddPoint(ctx, inst.Sections[1].ID, model.Point{Title: "Bad", Type: "color"})
	require.ErrorAs(t, err, &shapeErr)
}

func TestUpsertResponse(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	inst := seed(t, s)
	check := inst.Sections[0].Points[0]
	number := inst.Sections[0].Points[1]

	// the later point is answered first
	_, err := s.UpsertResponse(ctx, number.ID, model.Response{Value: model.NumberValue(25), Conformity: model.NonConforming})
	require.NoError(t, err)

	first, err := s.UpsertResponse(ctx, check.ID, model.Response{Value: model.BoolValue(false), Observations: "rever"})
	require.NoError(t, err)
	second, err := s.UpsertResponse(ctx, check.ID, model.Response{Conformity: model.NotApplicable, Responsible: "Bia"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert keeps a single response per point")

	_, err = s.UpsertResponse(ctx, check.ID, model.Response{Value: model.TextValue("sim")})
	var shapeErr *model.DataShapeError
	require.ErrorAs(t, err, &shapeErr)

	_, err = s.UpsertResponse(ctx, 9999, model.Response{Conformity: model.Conforming})
	require.ErrorIs(t, err, ErrNotFound)

	got, err := s.FetchInstance(ctx, inst.ID)
	require.NoError(t, err)
	r := got.Sections[0].Points[0].Response
	require.NotNil(t, r)
	assert.Nil(t, r.Value)
	assert.Equal(t, model.NotApplicable, r.Conformity)
	assert.Equal(t, "Bia", r.Responsible)
	assert.True(t, r.Answered())

	r = got.Sections[0].Points[1].Response
	require.NotNil(t, r)
	assert.Equal(t, model.NumberValue(25), r.Value)
	assert.Equal(t, model.NonConforming, r.Conformity)
}

func TestDeleteCascades(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	inst := seed(t, s)
	sec := inst.Sections[0]
	_, err := s.UpsertResponse(ctx, sec.Points[0].ID, model.Response{Conformity: model.Conforming})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSection(ctx, sec.ID))

	var points, responses int
	require.NoError(t, s.QueryRow(`SELECT COUNT(*) FROM point WHERE section_id = ?`, sec.ID).Scan(&points))
	require.NoError(t, s.QueryRow(`SELECT COUNT(*) FROM response`).Scan(&responses))
	assert.Zero(t, points)
	assert.Zero(t, responses)

	got, err := s.FetchInstance(ctx, inst.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "Concretagem", got.Sections[0].Name)

	require.NoError(t, s.DeleteInstance(ctx, inst.ID))
	require.NoError(t, s.QueryRow(`SELECT COUNT(*) FROM point`).Scan(&points))
	assert.Zero(t, points)
}

func TestNotFound(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.FetchInstance(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.AddSection(ctx, 42, model.Section{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.AddPoint(ctx, 42, model.Point{Title: "X", Type: model.TypeText})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteSection(ctx, 42), ErrNotFound)
	assert.ErrorIs(t, s.DeletePoint(ctx, 42), ErrNotFound)
	assert.ErrorIs(t, s.DeleteInstance(ctx, 42), ErrNotFound)
	_, err = s.UpdateInstance(ctx, model.Instance{ID: 42, Title: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateInstance(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	inst := seed(t, s)

	planned := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	inst.Title = "Fundações bloco B"
	inst.Status = model.StatusInProgress
	inst.PlannedDate = &planned
	got, err := s.UpdateInstance(ctx, *inst)
	require.NoError(t, err)

	assert.Equal(t, "Fundações bloco B", got.Title)
	assert.Equal(t, model.StatusInProgress, got.Status)
	require.NotNil(t, got.PlannedDate)
	assert.True(t, planned.Equal(*got.PlannedDate))
	assert.Len(t, got.Sections, 2)

	got.Status, got.Priority = "", ""
	got.Title = "Fundações bloco C"
	got, err = s.UpdateInstance(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, "Fundações bloco C", got.Title)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, model.PriorityMedium, got.Priority)
}

func TestFetchFilteredRecords(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, rec := range []model.Record{
		{Kind: model.KindMaterials, Code: "MAT-2", Title: "Aço CA-50", Status: "Aprovado",
			Dates:   map[string]time.Time{"received": time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)},
			Numbers: map[string]float64{"quantity": 120}, Text: map[string]string{"type": "aço", "supplier": "Gerdau"}},
		{Kind: model.KindMaterials, Code: "MAT-1", Title: "Cimento CP-II", Status: "pendente",
			Dates: map[string]time.Time{"received": time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
			Text:  map[string]string{"type": "cimento"}},
		{Kind: model.KindTests, Code: "ENS-1", Title: "Compressão", Status: "aprovado"},
	} {
		_, err := s.CreateRecord(ctx, rec)
		require.NoError(t, err)
	}

	all, err := s.FetchFilteredRecords(ctx, model.KindMaterials, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "MAT-1", all[0].Code)
	assert.Equal(t, 120.0, all[1].Numbers["quantity"])
	assert.Equal(t, "Gerdau", all[1].Text["supplier"])

	approved, err := s.FetchFilteredRecords(ctx, model.KindMaterials, model.Predicates{"status": "approved", "supplier": ""})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "MAT-2", approved[0].Code)

	recent, err := s.FetchFilteredRecords(ctx, model.KindMaterials, model.Predicates{"received_from": "2026-02-10"})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "MAT-2", recent[0].Code)

	err = s.DeleteRecord(ctx, model.KindTests, all[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.DeleteRecord(ctx, model.KindMaterials, all[0].ID))
	all, err = s.FetchFilteredRecords(ctx, model.KindMaterials, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "MAT-2", all[0].Code)

	_, err = s.CreateRecord(ctx, model.Record{Kind: model.KindMaterials, Code: "mat-1"})
	var shapeErr *model.DataShapeError
	require.ErrorAs(t, err, &shapeErr)

	_, err = s.CreateRecord(ctx, model.Record{Kind: "invoices", Code: "X"})
	require.ErrorAs(t, err, &shapeErr)
}

func TestSaveUser(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveUser(ctx, "admin", "first"))
	require.NoError(t, s.SaveUser(ctx, "admin", "second"))

	var hash []byte
	require.NoError(t, s.QueryRow(`SELECT password_hash FROM user WHERE username = ?`, "admin").Scan(&hash))
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("second")))
	assert.True(t, errors.Is(bcrypt.CompareHashAndPassword(hash, []byte("first")), bcrypt.ErrMismatchedHashAndPassword))
}
