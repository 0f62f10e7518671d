package filter

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// Tier orders how a query matched, best last.
type Tier int

const (
	TierNoMatch Tier = iota
	TierMatches
	TierAcronym
	TierContains
	TierWordStartsWith
	TierStartsWith
	TierEqual
	TierCaseSensitiveEqual
)

// Rank is the outcome of ranking one string against a query.
type Rank struct {
	Tier  Tier `json:"tier"`
	Score int  `json:"score"`
}

// Passed reports whether the rank counts as a match.
func (r Rank) Passed() bool { return r.Tier > TierNoMatch }

// MatchFuzzy ranks a field's string form against query. Matching is
// case-insensitive; a field passes only when the query is a subsequence of
// it, so extending a failing query never makes it pass.
func MatchFuzzy(field any, query string) (Rank, bool) {
	if query == "" {
		return Rank{Tier: TierCaseSensitiveEqual}, true
	}
	r := RankString(Stringify(field), query)
	return r, r.Passed()
}

// RankString ranks candidate against query.
func RankString(candidate, query string) Rank {
	matches := fuzzy.Find(query, []string{candidate})
	if len(matches) == 0 {
		return Rank{}
	}
	score := matches[0].Score

	if candidate == query {
		return Rank{Tier: TierCaseSensitiveEqual, Score: score}
	}
	lc, lq := strings.ToLower(candidate), strings.ToLower(query)
	switch {
	case lc == lq:
		return Rank{Tier: TierEqual, Score: score}
	case strings.HasPrefix(lc, lq):
		return Rank{Tier: TierStartsWith, Score: score}
	case strings.Contains(lc, " "+lq):
		return Rank{Tier: TierWordStartsWith, Score: score}
	case strings.Contains(lc, lq):
		return Rank{Tier: TierContains, Score: score}
	case strings.Contains(acronym(lc), lq):
		return Rank{Tier: TierAcronym, Score: score}
	}
	return Rank{Tier: TierMatches, Score: score}
}

// CompareRanks orders better ranks first: negative when a ranks ahead of b,
// zero when they tie.
func CompareRanks(a, b Rank) int {
	if a.Tier != b.Tier {
		if a.Tier > b.Tier {
			return -1
		}
		return 1
	}
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	return 0
}

func acronym(s string) string {
	var b strings.Builder
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	}) {
		for _, r := range w {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}
