package model

import (
	"fmt"
	"regexp"
	"strings"
)

var reNoIdent = regexp.MustCompile(`[^A-Za-z0-9-]+`)

// InstanceCode builds the code given to an instance created without one.
func InstanceCode(year, seq int) string {
	return fmt.Sprintf("PIE-%d-%04d", year, seq)
}

// SectionCode derives the code of the n-th section of an instance.
func SectionCode(instanceCode string, n int) string {
	return fmt.Sprintf("%s-S%d", instanceCode, n)
}

// PointCode derives the code of the n-th point of a section.
func PointCode(sectionCode string, n int) string {
	return fmt.Sprintf("%s-%d", sectionCode, n)
}

// CleanCode normalizes a user supplied code: upper case, runs of
// non-identifier characters collapsed to a single dash.
func CleanCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	code = reNoIdent.ReplaceAllLiteralString(code, "-")
	return strings.Trim(code, "-")
}

// NextOrder returns the order to assign on append: max+1, or 1 when empty.
func NextOrder(orders []int) int {
	next := 1
	for _, o := range orders {
		if o >= next {
			next = o + 1
		}
	}
	return next
}
