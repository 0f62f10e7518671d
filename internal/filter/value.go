// Package filter evaluates whether a record field passes a filter value.
// Every predicate is pure and looks at one field of one record.
package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/mithrel/gridspike/internal/util"
)

// Value is a filter value: Exact, Range, DateRange, or Fuzzy.
type Value interface {
	// Match reports whether a field value passes.
	Match(field any) bool
	isValue()
}

// Exact passes when the stringified field equals Value, or when Value is
// empty or "all".
type Exact struct {
	Value string `json:"value"`
}

// Range passes when Min <= field <= Max. A nil bound imposes no constraint.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// DateRange is Range over epoch milliseconds.
type DateRange struct {
	From *int64 `json:"from,omitempty"`
	To   *int64 `json:"to,omitempty"`
}

// Fuzzy passes when the field's string form ranks as a match for Query.
type Fuzzy struct {
	Query string `json:"query"`
}

func (Exact) isValue()     {}
func (Range) isValue()     {}
func (DateRange) isValue() {}
func (Fuzzy) isValue()     {}

func (v Exact) Match(field any) bool     { return MatchExact(field, v.Value) }
func (v Range) Match(field any) bool     { return InRange(field, v) }
func (v DateRange) Match(field any) bool { return InDateRange(field, v) }
func (v Fuzzy) Match(field any) bool {
	_, ok := MatchFuzzy(field, v.Query)
	return ok
}

// IsZero reports whether the range has no bounds.
func (v Range) IsZero() bool { return v.Min == nil && v.Max == nil }

// IsZero reports whether the range has no bounds.
func (v DateRange) IsZero() bool { return v.From == nil && v.To == nil }

// MatchExact compares string forms. It is case-sensitive.
func MatchExact(field any, want string) bool {
	if want == "" || want == "all" {
		return true
	}
	return Stringify(field) == want
}

// InRange checks inclusive numeric bounds. A non-numeric field fails any
// bounded range.
func InRange(field any, r Range) bool {
	if r.IsZero() {
		return true
	}
	n, ok := toFloat(field)
	if !ok {
		return false
	}
	if r.Min != nil && n < *r.Min {
		return false
	}
	if r.Max != nil && n > *r.Max {
		return false
	}
	return true
}

// InDateRange checks inclusive epoch-millisecond bounds.
func InDateRange(field any, r DateRange) bool {
	if r.IsZero() {
		return true
	}
	ms, ok := toMillis(field)
	if !ok {
		return false
	}
	if r.From != nil && ms < *r.From {
		return false
	}
	if r.To != nil && ms > *r.To {
		return false
	}
	return true
}

// ParseBound parses a user-typed number. Empty, malformed, NaN, or infinite
// input is an absent bound (nil), never zero.
func ParseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// ParseDateBound parses a calendar date as UTC midnight and returns epoch
// milliseconds, or nil for empty or invalid input.
func ParseDateBound(s string) *int64 {
	t, err := util.ParseDate(s)
	if err != nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// Stringify renders a field the way exact and fuzzy matching see it.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), !math.IsNaN(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func toMillis(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}
