package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mithrel/gridspike/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []api.Column{
	{ID: "date", Header: "Date", Kind: api.KindDate},
	{ID: "close", Header: "Close", Kind: api.KindNumber},
	{ID: "Name", Header: "Symbol", Kind: api.KindString},
	{ID: "flag", Header: "Flag", Kind: api.KindBool},
}

var rows = []api.Row{
	{ID: "r1", Fields: map[string]any{"date": int64(1514851200000), "close": 268.77, "Name": "SPY", "flag": true}},
	{ID: "r2", Fields: map[string]any{"date": int64(1514937600000), "close": 270.0, "Name": "a\tb|c"}},
}

func TestCell(t *testing.T) {
	assert.Equal(t, "2018-01-02", Cell(cols[0], int64(1514851200000)))
	assert.Equal(t, "2018-01-02", Cell(cols[0], float64(1514851200000)))
	assert.Equal(t, "270", Cell(cols[1], 270.0))
	assert.Equal(t, "Yes", Cell(cols[3], true))
	assert.Equal(t, "No", Cell(cols[3], false))
	assert.Equal(t, "", Cell(cols[3], nil))
}

func TestWritePlainRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainRows(&buf, cols, rows, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "date"))
	assert.Contains(t, lines[1], "2018-01-02")
	assert.Contains(t, lines[2], `a\tb|c`)

	buf.Reset()
	pw := NewPlainStreamWriter(&buf, cols, false)
	require.NoError(t, pw.WriteRows(rows[:1]))
	require.NoError(t, pw.WriteRows(rows[1:]))
	require.NoError(t, pw.Close())
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 2)
}

func TestJSONStreamWriter(t *testing.T) {
	for _, indent := range []bool{false, true} {
		var buf bytes.Buffer
		jw := NewJSONStreamWriter(&buf, cols, indent)
		require.NoError(t, jw.WriteRows(rows[:1]))
		require.NoError(t, jw.WriteRows(rows[1:]))
		require.NoError(t, jw.Close())

		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
		require.Len(t, got, 2)
		assert.Equal(t, "r1", got[0]["id"])
		assert.Equal(t, "2018-01-02", got[0]["date"])
		assert.Equal(t, 268.77, got[0]["close"])
	}

	var buf bytes.Buffer
	require.NoError(t, NewJSONStreamWriter(&buf, cols, false).Close())
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteJSONRowsAndNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONRows(&buf, cols, rows, false))
	var arr []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &arr))
	assert.Len(t, arr, 2)
	_, hasFlag := arr[1]["flag"]
	assert.False(t, hasFlag)

	buf.Reset()
	require.NoError(t, WriteNDJSONRows(&buf, cols, rows))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestMarkdownPage(t *testing.T) {
	md := MarkdownPage("stocks", cols, rows, "1-2 of 2")
	assert.Contains(t, md, "# stocks")
	assert.Contains(t, md, "> 1-2 of 2")
	assert.Contains(t, md, "| Date | Close | Symbol | Flag |")
	assert.Contains(t, md, "| --- | ---: | --- | --- |")
	assert.Contains(t, md, `b\|c`)

	assert.Contains(t, MarkdownPage("empty", cols, nil, ""), "_No results._")

	var buf bytes.Buffer
	require.NoError(t, WritePrettyPage(&buf, "stocks", cols, rows, ""))
	assert.Contains(t, buf.String(), "SPY")
}
