package util

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Candidate is a completion value with an ordering hint. Larger Recency
// sorts first; zero means unknown.
type Candidate struct {
	Name    string
	Recency int64
}

type candidates []Candidate

func (c candidates) String(i int) string { return c[i].Name }
func (c candidates) Len() int { return len(c) }

// RankCompletions returns up to n candidate names for input. Fuzzy score
// decides first, then recency, then name. An empty input lists every
// candidate by recency. A non-positive n means no limit.
func RankCompletions(input string, cands []Candidate, n int) []string {
	if input == "" {
		sorted := append([]Candidate(nil), cands...)
		sort.SliceStable(sorted, func(i, j int) bool { return newer(sorted[i], sorted[j]) })
		out := make([]string, 0, len(sorted))
		for _, c := range sorted {
			out = append(out, c.Name)
		}
		return limit(out, n)
	}

	matches := fuzzy.FindFrom(input, candidates(cands))
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return newer(cands[matches[i].Index], cands[matches[j].Index])
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return limit(out, n)
}

func newer(a, b Candidate) bool {
	if a.Recency != b.Recency {
		return a.Recency > b.Recency
	}
	return a.Name < b.Name
}

func limit(names []string, n int) []string {
	if n > 0 && len(names) > n {
		return names[:n]
	}
	return names
}
