// Package report composes paginated inspection and record reports out of
// render blocks, driving page breaks through a layout cursor.
package report

import (
	"fmt"
	"strings"

	"github.com/mbolis/pie-reports/model"
)

type Variant string

const (
	Individual Variant = "individual"
	Executive  Variant = "executive"
	Filtered   Variant = "filtered"
)

// UnsupportedVariantError is returned for a report variant nobody knows how
// to compose. No default variant is ever substituted.
type UnsupportedVariantError struct {
	Requested string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("unsupported report variant %q", e.Requested)
}

// ParseVariant accepts the variant names case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case Individual, Executive, Filtered:
		return v, nil
	}
	return "", &UnsupportedVariantError{Requested: s}
}

// InspectionKind names reports built from an inspection instance.
const InspectionKind = "inspection"

// UnsupportedKindError is returned for an unknown record kind.
type UnsupportedKindError struct {
	Requested string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported report kind %q", e.Requested)
}

func ParseKind(s string) (model.RecordKind, error) {
	kind := model.RecordKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", &UnsupportedKindError{Requested: s}
	}
	return kind, nil
}
