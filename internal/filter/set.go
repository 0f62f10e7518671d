package filter

import (
	"fmt"
	"sort"

	"github.com/mithrel/gridspike/pkg/api"
)

// Set maps a column id to its active filter value.
type Set map[string]Value

// Keys returns the filtered column ids in sorted order.
func (s Set) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Predicate combines every value in the set with AND. A value aimed at a
// column the schema does not have is a programming error; it trips the
// gridassert build and is otherwise dropped.
func (s Set) Predicate(schema api.Schema) func(api.Row) bool {
	type check struct {
		col string
		v   Value
	}
	checks := make([]check, 0, len(s))
	for _, k := range s.Keys() {
		if !schema.Has(k) {
			misconfigured(fmt.Sprintf("filter on unknown column %q in schema %q", k, schema.Name))
			continue
		}
		checks = append(checks, check{col: k, v: s[k]})
	}
	return func(r api.Row) bool {
		for _, c := range checks {
			if !c.v.Match(r.Fields[c.col]) {
				return false
			}
		}
		return true
	}
}

// GlobalMatch ranks query against every globally searchable column of row and
// returns the best rank.
func GlobalMatch(row api.Row, schema api.Schema, query string) (Rank, bool) {
	if query == "" {
		return Rank{Tier: TierCaseSensitiveEqual}, true
	}
	var best Rank
	for _, c := range schema.Columns {
		if !c.EnableGlobalFilter {
			continue
		}
		r, ok := MatchFuzzy(row.Fields[c.ID], query)
		if ok && CompareRanks(r, best) < 0 {
			best = r
		}
	}
	return best, best.Passed()
}
