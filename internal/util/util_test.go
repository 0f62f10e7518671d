package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2018-01-02")
	require.NoError(t, err)
	require.Equal(t, time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2018-01-02T15:04")
	require.NoError(t, err)
	require.Equal(t, time.Date(2018, 1, 2, 15, 4, 0, 0, time.UTC), d)

	d, err = ParseDate("2018-01-02T01:00:00+02:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2018, 1, 1, 23, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("yesterday")
	require.Error(t, err)
	_, err = ParseDate("")
	require.Error(t, err)
}

func TestNormalizeDateRange(t *testing.T) {
	now := time.Date(2018, 3, 15, 12, 0, 0, 0, time.UTC)

	f, to, err := NormalizeDateRange("2w", "", now)
	require.NoError(t, err)
	require.Equal(t, "2018-03-01", f)
	require.Empty(t, to)

	f, to, err = NormalizeDateRange("2018-02-10", "2018-01-05", now)
	require.NoError(t, err)
	require.Equal(t, "2018-01-05", f)
	require.Equal(t, "2018-02-10", to)

	f, to, err = NormalizeDateRange("", "", now)
	require.NoError(t, err)
	require.Empty(t, f)
	require.Empty(t, to)

	_, _, err = NormalizeDateRange("xd", "", now)
	require.ErrorContains(t, err, "--date-from")
}

func TestRankCompletions(t *testing.T) {
	cands := []Candidate{
		{Name: "stocks"},
		{Name: "houses"},
		{Name: "homes", Recency: 200},
		{Name: "hotels", Recency: 100},
	}
	require.Equal(t, []string{"homes", "hotels", "houses", "stocks"}, RankCompletions("", cands, 0))
	require.Equal(t, []string{"homes", "hotels"}, RankCompletions("", cands, 2))

	got := RankCompletions("ho", cands, 0)
	require.Equal(t, []string{"homes", "hotels", "houses"}, got)
	require.Len(t, RankCompletions("ho", cands, 1), 1)
	require.Nil(t, RankCompletions("zz", cands, 3))
}
