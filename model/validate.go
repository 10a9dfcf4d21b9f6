package model

import (
	"fmt"
	"sort"
)

// DataShapeError reports an entity that violates the hierarchy invariants.
// It is raised before any rendering starts.
type DataShapeError struct {
	Entity string
	Code   string
	Reason string
}

func (e *DataShapeError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Entity, e.Code, e.Reason)
}

func shapeErr(entity, code, format string, args ...any) error {
	return &DataShapeError{Entity: entity, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the invariants of a materialized instance tree:
// strictly increasing orders, unique codes per scope, known value types and
// responses whose payload matches the declared type of their point.
func Validate(inst *Instance) error {
	if inst == nil {
		return shapeErr("instance", "", "missing")
	}
	if inst.Code == "" {
		return shapeErr("instance", "", "empty code")
	}

	sectionCodes := make(map[string]bool, len(inst.Sections))
	for i, s := range inst.Sections {
		if s.Code == "" {
			return shapeErr("section", s.Name, "empty code")
		}
		if sectionCodes[s.Code] {
			return shapeErr("section", s.Code, "duplicate code in instance %s", inst.Code)
		}
		sectionCodes[s.Code] = true
		if i > 0 && s.Order <= inst.Sections[i-1].Order {
			return shapeErr("section", s.Code, "order %d not greater than %d", s.Order, inst.Sections[i-1].Order)
		}
		if err := validateSection(s); err != nil {
			return err
		}
	}
	return nil
}

func validateSection(s Section) error {
	pointCodes := make(map[string]bool, len(s.Points))
	for i, p := range s.Points {
		if p.Code == "" {
			return shapeErr("point", p.Title, "empty code")
		}
		if pointCodes[p.Code] {
			return shapeErr("point", p.Code, "duplicate code in section %s", s.Code)
		}
		pointCodes[p.Code] = true
		if i > 0 && p.Order <= s.Points[i-1].Order {
			return shapeErr("point", p.Code, "order %d not greater than %d", p.Order, s.Points[i-1].Order)
		}
		if !p.Type.Valid() {
			return shapeErr("point", p.Code, "unknown value type %q", p.Type)
		}
		if err := validateResponse(p); err != nil {
			return err
		}
	}
	return nil
}

func validateResponse(p Point) error {
	r := p.Response
	if r == nil {
		return nil
	}
	if r.PointID != 0 && p.ID != 0 && r.PointID != p.ID {
		return shapeErr("response", p.Code, "references point %d", r.PointID)
	}
	if r.Value != nil && r.Value.Type() != p.Type {
		return shapeErr("response", p.Code, "value of type %s for %s point", r.Value.Type(), p.Type)
	}
	return nil
}

// Assemble links flat rows, as returned by a data source, into an instance
// tree ordered by section and point order, then validates it. Rows pointing
// to a nonexistent parent are rejected.
func Assemble(inst Instance, sections []Section, points []Point, responses []Response) (*Instance, error) {
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	sort.SliceStable(points, func(i, j int) bool { return points[i].Order < points[j].Order })

	sectionIdx := make(map[int64]int, len(sections))
	for i := range sections {
		if sections[i].InstanceID != 0 && inst.ID != 0 && sections[i].InstanceID != inst.ID {
			return nil, shapeErr("section", sections[i].Code, "belongs to instance %d", sections[i].InstanceID)
		}
		sections[i].Points = nil
		sectionIdx[sections[i].ID] = i
	}

	byPoint := make(map[int64]*Response, len(responses))
	for i := range responses {
		r := &responses[i]
		if _, dup := byPoint[r.PointID]; dup {
			return nil, shapeErr("response", "", "second response for point %d", r.PointID)
		}
		byPoint[r.PointID] = r
	}

	for _, p := range points {
		i, ok := sectionIdx[p.SectionID]
		if !ok {
			return nil, shapeErr("point", p.Code, "references nonexistent section %d", p.SectionID)
		}
		if r, ok := byPoint[p.ID]; ok {
			p.Response = r
			delete(byPoint, p.ID)
		}
		sections[i].Points = append(sections[i].Points, p)
	}
	for pointID := range byPoint {
		return nil, shapeErr("response", "", "references nonexistent point %d", pointID)
	}

	inst.Sections = sections
	if err := Validate(&inst); err != nil {
		return nil, err
	}
	return &inst, nil
}
