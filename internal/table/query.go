package table

import (
	"math"
	"strings"
	"unicode"
)

// Predicate selects rows for Filter.
type Predicate func(Row) bool

// Filter returns the rows matching pred, in their original order.
func Filter(rows []Row, pred Predicate) []Row {
	var out []Row
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Contains matches rows whose field contains substr, ignoring case.
func Contains(field int, substr string) Predicate {
	needle := strings.ToLower(substr)
	return func(r Row) bool {
		return strings.Contains(strings.ToLower(r.Cell(field)), needle)
	}
}

// Between matches rows whose field parses to a number strictly between lo and hi.
func Between(field, lo, hi int) Predicate {
	return func(r Row) bool {
		n := LeadingInt(r.Cell(field))
		return n > lo && n < hi
	}
}

// Equals matches rows whose field parses to n.
// Unparseable cells read as 0, so Equals(field, 0) also matches them.
func Equals(field, n int) Predicate {
	return func(r Row) bool {
		return LeadingInt(r.Cell(field)) == n
	}
}

// LeadingInt reads an optional sign and the leading decimal digits of s,
// after any leading whitespace. Text without leading digits reads as 0:
// "30" is 30, "25.99" is 25, " -4 USD" is -4, "$30" and "" are 0.
// Values beyond the int range saturate.
func LeadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (math.MaxInt-d)/10 {
			if neg {
				return math.MinInt
			}
			return math.MaxInt
		}
		n = n*10 + d
	}

	if neg {
		return -n
	}
	return n
}

// MaxNumeric returns the largest strictly positive value in field.
// Returns false when no row has one.
func MaxNumeric(rows []Row, field int) (int, bool) {
	best, found := 0, false
	for _, r := range rows {
		n := LeadingInt(r.Cell(field))
		if n > 0 && (!found || n > best) {
			best, found = n, true
		}
	}
	return best, found
}
