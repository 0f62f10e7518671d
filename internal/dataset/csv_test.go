package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mithrel/gridspike/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stocksCSV = `date,open,high,low,close,volume,Name
2018-01-02,267.84,268.81,267.4,268.77,86655749,SPY

2018-01-03,268.96,270.64,268.96,270.47,90070416,SPY
2018-01-02,155.0,156.0,154.0,155.5,,QQQ
`

func TestParseStocks(t *testing.T) {
	ds, err := Parse([]byte(stocksCSV), "stocks")
	require.NoError(t, err)
	assert.Equal(t, "stocks", ds.Schema.Name)
	require.Len(t, ds.Rows, 3)

	first := ds.Rows[0]
	assert.Equal(t, "SPY", first.Fields["Name"])
	assert.Equal(t, 268.77, first.Fields["close"])
	assert.Equal(t, float64(86655749), first.Fields["volume"])
	assert.Equal(t, int64(1514851200000), first.Fields["date"])
	assert.NotEmpty(t, first.ID)

	_, hasVolume := ds.Rows[2].Fields["volume"]
	assert.False(t, hasVolume)
	assert.Len(t, ds.Checksum, 64)
}

func TestParseHousesBooleans(t *testing.T) {
	in := "price,area,bedrooms,bathrooms,stories,mainroad,guestroom,basement,hotwaterheating,airconditioning,parking,prefarea,furnishingstatus\n" +
		"13300000,7420,4,2,3,yes,no,no,no,yes,2,yes,furnished\n"
	ds, err := Parse([]byte(in), "houses")
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	f := ds.Rows[0].Fields
	assert.Equal(t, true, f["mainroad"])
	assert.Equal(t, false, f["guestroom"])
	assert.Equal(t, "furnished", f["furnishingstatus"])
	assert.Equal(t, float64(13300000), f["price"])
}

func TestDuplicateRowsGetDistinctIDs(t *testing.T) {
	in := "a,b\n1,x\n1,x\n"
	ds, err := Parse([]byte(in), "custom")
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)
	assert.NotEqual(t, ds.Rows[0].ID, ds.Rows[1].ID)
	assert.True(t, strings.HasPrefix(ds.Rows[1].ID, ds.Rows[0].ID))
}

func TestExplicitIDColumn(t *testing.T) {
	ds, err := Parse([]byte("id,name\nr1,alpha\nr2,beta\n"), "custom")
	require.NoError(t, err)
	assert.Equal(t, "r1", ds.Rows[0].ID)
	assert.False(t, ds.Schema.Has("id"))
}

func TestInfer(t *testing.T) {
	in := "sym,px,flag,day,note\nA,1.5,yes,2020-01-01,x\nB,,no,2020-01-02,2\n"
	ds, err := Parse([]byte(in), "custom")
	require.NoError(t, err)
	kinds := map[string]api.Kind{}
	for _, c := range ds.Schema.Columns {
		kinds[c.ID] = c.Kind
	}
	assert.Equal(t, map[string]api.Kind{
		"sym":  api.KindString,
		"px":   api.KindNumber,
		"flag": api.KindBool,
		"day":  api.KindDate,
		"note": api.KindString,
	}, kinds)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(nil, "stocks")
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Parse([]byte("a,\"b\n1,2\n"), "x")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "stocks.csv")
	require.NoError(t, os.WriteFile(p, []byte(stocksCSV), 0o644))
	ds, err := LoadFile(p, "stocks")
	require.NoError(t, err)
	assert.Equal(t, p, ds.Source)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), "stocks")
	assert.Error(t, err)
}

func TestCoerce(t *testing.T) {
	row := api.Row{Fields: map[string]any{"date": float64(1514851200000), "close": 1.5}}
	row = Coerce(Stocks, row)
	assert.Equal(t, int64(1514851200000), row.Fields["date"])
	assert.Equal(t, 1.5, row.Fields["close"])
}

func TestBuiltin(t *testing.T) {
	s, ok := Builtin("houses")
	require.True(t, ok)
	assert.True(t, s.Has("furnishingstatus"))
	_, ok = Builtin("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"stocks", "houses"}, BuiltinNames())
}
