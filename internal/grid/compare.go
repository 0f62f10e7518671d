package grid

import (
	"math"

	"github.com/mithrel/gridspike/internal/filter"
	"github.com/mithrel/gridspike/pkg/api"
)

// compareValues orders two field values of a column kind. Missing values
// sort after present ones.
func compareValues(kind api.Kind, a, b any) int {
	am, bm := isMissing(a), isMissing(b)
	switch {
	case am && bm:
		return 0
	case am:
		return 1
	case bm:
		return -1
	}
	switch kind {
	case api.KindNumber, api.KindDate:
		x, xok := number(a)
		y, yok := number(b)
		if xok && yok {
			return cmpFloat(x, y)
		}
	case api.KindBool:
		x, xok := a.(bool)
		y, yok := b.(bool)
		if xok && yok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}
	return filter.CompareAlphanumeric(filter.Stringify(a), filter.Stringify(b))
}

// missingOrdered reports whether the comparison was decided by a missing
// value, which stays last regardless of direction.
func missingOrdered(ranked bool, a, b any) bool {
	if ranked {
		return false
	}
	return isMissing(a) != isMissing(b)
}

func isMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return math.IsNaN(x)
	}
	return false
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
