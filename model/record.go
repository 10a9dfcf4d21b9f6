package model

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

type RecordKind string

const (
	KindMaterials       RecordKind = "materials"
	KindTests           RecordKind = "tests"
	KindNonConformities RecordKind = "nonconformities"
)

func (k RecordKind) Valid() bool {
	switch k {
	case KindMaterials, KindTests, KindNonConformities:
		return true
	}
	return false
}

// Record is a flat business row (material, test, non-conformity) listed by
// the filtered report.
type Record struct {
	ID        int64                `json:"id,omitempty"`
	Kind      RecordKind           `json:"kind"`
	Code      string               `json:"code"`
	Title     string               `json:"title"`
	Status    string               `json:"status"`
	Dates     map[string]time.Time `json:"dates,omitempty"`
	Numbers   map[string]float64   `json:"numbers,omitempty"`
	Text      map[string]string    `json:"text,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Field returns the string form of a named field, looking at the fixed
// attributes first, then text, number and date fields.
func (r Record) Field(name string) (string, bool) {
	switch name {
	case "code":
		return r.Code, true
	case "title":
		return r.Title, true
	case "status":
		return r.Status, true
	}
	if v, ok := r.Text[name]; ok {
		return v, true
	}
	if v, ok := r.Numbers[name]; ok {
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	if v, ok := r.Dates[name]; ok {
		return v.Format(dateOnly), true
	}
	return "", false
}

// Predicate is one active filter: a field name and the value it must match.
type Predicate struct {
	Field string
	Value string
}

// Predicates maps field name to filter value. Empty values mean the field is
// not filtered on.
type Predicates map[string]string

// Active returns the non-empty predicates sorted by field name.
func (ps Predicates) Active() []Predicate {
	var active []Predicate
	for field, value := range ps {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		active = append(active, Predicate{field, value})
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Field < active[j].Field })
	return active
}

// Match reports whether r satisfies every active predicate. Fields suffixed
// with _from / _to bound the date field of the same stem (inclusive);
// status compares normalized keys; anything else is a case-insensitive
// substring match.
func (ps Predicates) Match(r Record) bool {
	for _, p := range ps.Active() {
		if !p.match(r) {
			return false
		}
	}
	return true
}

func (p Predicate) match(r Record) bool {
	if stem, ok := strings.CutSuffix(p.Field, "_from"); ok {
		return p.matchDate(r, stem, func(d, bound time.Time) bool { return !d.Before(bound) })
	}
	if stem, ok := strings.CutSuffix(p.Field, "_to"); ok {
		return p.matchDate(r, stem, func(d, bound time.Time) bool { return !d.After(bound) })
	}
	if p.Field == "status" {
		want := NormalizeStatus(p.Value)
		if want != KeyUnknown {
			return NormalizeStatus(r.Status) == want
		}
	}
	v, ok := r.Field(p.Field)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(p.Value))
}

// Bound parses the value of a _from / _to predicate as a yyyy-mm-dd date.
func (p Predicate) Bound() (time.Time, bool) {
	if !strings.HasSuffix(p.Field, "_from") && !strings.HasSuffix(p.Field, "_to") {
		return time.Time{}, false
	}
	t, err := time.Parse(dateOnly, p.Value)
	return t, err == nil
}

func (p Predicate) matchDate(r Record, stem string, cmp func(d, bound time.Time) bool) bool {
	bound, ok := p.Bound()
	if !ok {
		return false
	}
	d, ok := r.Dates[stem]
	if !ok {
		return false
	}
	y, m, day := d.Date()
	return cmp(time.Date(y, m, day, 0, 0, 0, 0, time.UTC), bound)
}
