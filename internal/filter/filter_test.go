package filter

import (
	"math"
	"testing"

	"github.com/mithrel/gridspike/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestMatchExact(t *testing.T) {
	assert.True(t, MatchExact("AAPL", "AAPL"))
	assert.False(t, MatchExact("aapl", "AAPL"))
	assert.True(t, MatchExact("anything", "all"))
	assert.True(t, MatchExact("anything", ""))
	assert.True(t, MatchExact(float64(3), "3"))
	assert.False(t, MatchExact(float64(3), "3.0"))
	assert.True(t, MatchExact(true, "true"))
}

func TestInRangeInclusive(t *testing.T) {
	r := Range{Min: f(10), Max: f(20)}
	assert.True(t, InRange(float64(10), r))
	assert.True(t, InRange(float64(20), r))
	assert.True(t, InRange(float64(15), r))
	assert.False(t, InRange(9.99, r))
	assert.False(t, InRange(20.01, r))

	assert.True(t, InRange(float64(-1e9), Range{Max: f(20)}))
	assert.True(t, InRange(float64(1e9), Range{Min: f(10)}))
	assert.True(t, InRange("n/a", Range{}))
	assert.False(t, InRange("n/a", r))
	assert.False(t, InRange(math.NaN(), r))
}

func TestInDateRange(t *testing.T) {
	from := ParseDateBound("2018-01-01")
	to := ParseDateBound("2018-01-31")
	require.NotNil(t, from)
	require.NotNil(t, to)
	r := DateRange{From: from, To: to}

	jan15 := ParseDateBound("2018-01-15")
	feb1 := ParseDateBound("2018-02-01")
	assert.True(t, InDateRange(*jan15, r))
	assert.True(t, InDateRange(*from, r))
	assert.True(t, InDateRange(*to, r))
	assert.False(t, InDateRange(*feb1, r))
	assert.True(t, InDateRange(*feb1, DateRange{From: from}))
}

func TestParseBound(t *testing.T) {
	assert.Nil(t, ParseBound(""))
	assert.Nil(t, ParseBound("abc"))
	assert.Nil(t, ParseBound("NaN"))
	assert.Nil(t, ParseBound("Inf"))
	assert.Nil(t, ParseBound("-Inf"))
	require.NotNil(t, ParseBound("0"))
	assert.Equal(t, 0.0, *ParseBound("0"))
	assert.Equal(t, 12.5, *ParseBound(" 12.5 "))
}

func TestParseDateBound(t *testing.T) {
	assert.Nil(t, ParseDateBound(""))
	assert.Nil(t, ParseDateBound("not-a-date"))
	ms := ParseDateBound("1970-01-02")
	require.NotNil(t, ms)
	assert.Equal(t, int64(86_400_000), *ms)
}

func TestMatchFuzzy(t *testing.T) {
	_, ok := MatchFuzzy("AAPL", "")
	assert.True(t, ok)

	r, ok := MatchFuzzy("AAPL", "AAPL")
	require.True(t, ok)
	assert.Equal(t, TierCaseSensitiveEqual, r.Tier)

	r, ok = MatchFuzzy("AAPL", "aapl")
	require.True(t, ok)
	assert.Equal(t, TierEqual, r.Tier)

	r, ok = MatchFuzzy("AAPL", "aa")
	require.True(t, ok)
	assert.Equal(t, TierStartsWith, r.Tier)

	r, ok = MatchFuzzy("semi furnished", "fur")
	require.True(t, ok)
	assert.Equal(t, TierWordStartsWith, r.Tier)

	r, ok = MatchFuzzy("AAPL", "al")
	require.True(t, ok)
	assert.Equal(t, TierMatches, r.Tier)

	_, ok = MatchFuzzy("AAPL", "xyz")
	assert.False(t, ok)

	_, ok = MatchFuzzy(float64(150), "15")
	assert.True(t, ok)
}

func TestMatchFuzzyMonotonic(t *testing.T) {
	candidates := []string{"AAPL", "MSFT", "semi-furnished", "unfurnished", "GOOGL"}
	queries := []string{"x", "aq", "zz", "fz"}
	for _, c := range candidates {
		for _, q := range queries {
			if _, ok := MatchFuzzy(c, q); ok {
				continue
			}
			for _, ext := range []string{"a", "l", "1"} {
				_, ok := MatchFuzzy(c, q+ext)
				assert.False(t, ok, "%q extended to %q must still fail on %q", q, q+ext, c)
			}
		}
	}
}

func TestCompareRanks(t *testing.T) {
	a := Rank{Tier: TierEqual}
	b := Rank{Tier: TierContains, Score: 100}
	assert.Negative(t, CompareRanks(a, b))
	assert.Positive(t, CompareRanks(b, a))
	assert.Zero(t, CompareRanks(a, a))
	assert.Negative(t, CompareRanks(Rank{Tier: TierMatches, Score: 5}, Rank{Tier: TierMatches, Score: 2}))
}

func TestCompareAlphanumeric(t *testing.T) {
	assert.Negative(t, CompareAlphanumeric("item2", "item10"))
	assert.Positive(t, CompareAlphanumeric("item10", "item2"))
	assert.Zero(t, CompareAlphanumeric("Item10", "item10"))
	assert.Negative(t, CompareAlphanumeric("abc", "abd"))
	assert.Negative(t, CompareAlphanumeric("a", "a1"))
	assert.Negative(t, CompareAlphanumeric("x", "1"))
	assert.Zero(t, CompareAlphanumeric("007", "7"))
	assert.Negative(t, CompareAlphanumeric("99999999999999999999998", "99999999999999999999999"))
}

func houseSchema() api.Schema {
	return api.Schema{Name: "houses", Columns: []api.Column{
		{ID: "price", Kind: api.KindNumber},
		{ID: "furnishingstatus", Kind: api.KindString, EnableGlobalFilter: true},
		{ID: "bedrooms", Kind: api.KindNumber},
	}}
}

func TestSetPredicate(t *testing.T) {
	rows := []api.Row{
		{ID: "1", Fields: map[string]any{"price": float64(100), "furnishingstatus": "furnished", "bedrooms": float64(2)}},
		{ID: "2", Fields: map[string]any{"price": float64(200), "furnishingstatus": "unfurnished", "bedrooms": float64(3)}},
		{ID: "3", Fields: map[string]any{"price": float64(300), "furnishingstatus": "furnished", "bedrooms": float64(3)}},
	}
	set := Set{
		"price":            Range{Min: f(150)},
		"furnishingstatus": Exact{Value: "furnished"},
	}
	pred := set.Predicate(houseSchema())

	var got []string
	for _, r := range rows {
		if pred(r) {
			got = append(got, r.ID)
		}
	}
	assert.Equal(t, []string{"3"}, got)

	all := Set{}.Predicate(houseSchema())
	for _, r := range rows {
		assert.True(t, all(r))
	}
}

func TestGlobalMatch(t *testing.T) {
	row := api.Row{ID: "1", Fields: map[string]any{"price": float64(100), "furnishingstatus": "semi-furnished"}}
	_, ok := GlobalMatch(row, houseSchema(), "semi")
	assert.True(t, ok)
	// price is not globally searchable
	_, ok = GlobalMatch(row, houseSchema(), "100")
	assert.False(t, ok)
	_, ok = GlobalMatch(row, houseSchema(), "")
	assert.True(t, ok)
}
