package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/gridspike/internal/filter"
	"github.com/mithrel/gridspike/internal/grid"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/pkg/api"
)

const housesCSV = `price,area,bedrooms,bathrooms,stories,mainroad,guestroom,basement,hotwaterheating,airconditioning,parking,prefarea,furnishingstatus
100,1000,2,1,1,yes,no,no,no,no,0,no,unfurnished
200,1500,3,1,2,yes,no,no,no,yes,1,no,semi-furnished
300,2000,3,2,2,yes,yes,yes,no,yes,2,yes,furnished
400,2500,4,2,3,no,no,no,no,yes,2,yes,furnished
`

type env struct {
	dir    string
	cfg    string
	houses string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	cfg := filepath.Join(dir, "config.toml")
	body := "data_dir = \"" + filepath.Join(dir, "data") + "\"\ndataset = \"houses\"\n\n[log]\nlevel = \"error\"\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))
	houses := filepath.Join(dir, "houses.csv")
	require.NoError(t, os.WriteFile(houses, []byte(housesCSV), 0o600))
	return env{dir: dir, cfg: cfg, houses: houses}
}

func (e env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", e.cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) (string, string) {
	t.Helper()
	out, errOut, err := e.run(t, args...)
	require.NoError(t, err, "stderr: %s", errOut)
	return out, errOut
}

type jsonPage struct {
	Dataset   string           `json:"dataset"`
	Rows      []map[string]any `json:"rows"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PageCount int              `json:"page_count"`
	Query     string           `json:"query"`
}

func TestImportAndGridJSON(t *testing.T) {
	e := newEnv(t)
	out, _ := e.mustRun(t, "import", e.houses)
	assert.Contains(t, out, "Imported houses: 4 rows")

	out, _ = e.mustRun(t, "grid", "-d", "houses", "--set", "bedrooms=3", "--sort", "price.desc", "-o", "json")
	var page jsonPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Rows, 2)
	assert.EqualValues(t, 300, page.Rows[0]["price"])
	assert.EqualValues(t, 200, page.Rows[1]["price"])
	assert.Contains(t, page.Query, "bedrooms=3")
	assert.Contains(t, page.Query, "sortBy=price.desc")
}

func TestGridDefaultsToConfigDataset(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "import", e.houses)
	out, _ := e.mustRun(t, "grid", "-o", "json")
	var page jsonPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 4, page.Total)
}

func TestGridPlainFromFile(t *testing.T) {
	e := newEnv(t)
	out, errOut := e.mustRun(t, "grid", "-f", e.houses, "--page-size", "2", "--page", "2", "--sort", "price.asc", "-o", "plain", "--show-query")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "price"))
	assert.True(t, strings.HasPrefix(lines[1], "300"))
	assert.True(t, strings.HasPrefix(lines[2], "400"))
	assert.NotContains(t, lines[0], "guestroom")
	assert.Contains(t, errOut, "page 2 of 2")
	assert.Contains(t, errOut, "query: ")
	assert.Contains(t, errOut, "page=2")
}

func TestGridColumnsAndNoHeaders(t *testing.T) {
	e := newEnv(t)
	out, _ := e.mustRun(t, "grid", "-f", e.houses, "--columns", "bedrooms", "--sort", "price.asc", "--noheaders", "-o", "plain")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"100", "2"}, strings.Fields(lines[0]))
}

func TestGridExportAllNDJSON(t *testing.T) {
	e := newEnv(t)
	out, _ := e.mustRun(t, "grid", "-f", e.houses, "--page-size", "1", "--all", "-o", "ndjson")
	assert.Len(t, ndjsonLines(t, out), 4)

	out, _ = e.mustRun(t, "grid", "-f", e.houses, "--match", "furnishingstatus=semi", "--all", "-o", "ndjson")
	recs := ndjsonLines(t, out)
	require.Len(t, recs, 1)
	assert.Equal(t, "semi-furnished", recs[0]["furnishingstatus"])
}

func ndjsonLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var recs []map[string]any
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		recs = append(recs, m)
	}
	return recs
}

func TestGridErrors(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.run(t, "grid", "-d", "nope", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import it or pass --file")

	_, _, err = e.run(t, "grid", "-f", e.houses, "--set", "broken", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want key=value")

	_, _, err = e.run(t, "grid", "-f", e.houses, "--match", "color=red", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column color")

	_, _, err = e.run(t, "grid", "-f", e.houses, "-o", "xml")
	require.Error(t, err)

	_, _, err = e.run(t, "grid", "-f", e.houses)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}

func TestDatasetsListRememberAndForget(t *testing.T) {
	e := newEnv(t)
	out, _ := e.mustRun(t, "import", "--name", "homes", "--schema", "houses", "--remember", e.houses)
	assert.Contains(t, out, "Imported homes: 4 rows")
	assert.Contains(t, out, "Remembered in "+e.cfg)

	cfg, err := os.ReadFile(e.cfg)
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "[datasets.homes]")
	assert.Contains(t, string(cfg), `schema = "houses"`)

	out, _ = e.mustRun(t, "datasets", "list", "-o", "json")
	var page jsonPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "homes", page.Rows[0]["name"])
	assert.Equal(t, "store+config", page.Rows[0]["origin"])

	// configured datasets load from their file with the recorded schema
	out, _ = e.mustRun(t, "grid", "-d", "homes", "--set", "bedrooms=4", "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 1, page.Total)

	out, _ = e.mustRun(t, "datasets", "rm", "homes", "--forget")
	assert.Contains(t, out, "Removed homes")
	assert.Contains(t, out, "Forgot [datasets.homes]")

	cfg, err = os.ReadFile(e.cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(cfg), "[datasets.homes]")

	out, _ = e.mustRun(t, "ds", "list", "--noheaders")
	assert.Empty(t, strings.TrimSpace(out))

	_, _, err = e.run(t, "datasets", "rm", "homes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestImportRejectsNameWithManyFiles(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "import", "--name", "x", e.houses, e.houses)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single file")
}

func TestConfigGenerateAndCheck(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "gen", "config.toml")

	out, _ := e.mustRun(t, "config", "generate", "-o", path)
	assert.Contains(t, out, "Wrote "+path)

	_, _, err := e.run(t, "config", "generate", "-o", path)
	require.Error(t, err)

	out, _ = e.mustRun(t, "config", "generate", "-o", path, "--update")
	assert.Contains(t, out, "Config already up to date")

	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--config", path, "config", "check"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, buf.String(), "Config OK")

	require.NoError(t, os.WriteFile(path, []byte("[grid]\npage_size = 0\n"), 0o600))
	root = NewRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"--config", path, "config", "check"})
	err = root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid.page_size must be greater than 0")
}

func TestSnapshotMergesFlags(t *testing.T) {
	now := time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC)
	f := gridFlags{
		query:    "symbol=SPY&page=4",
		sets:     []string{"symbol=QQQ"},
		sort:     "close.desc,date.asc",
		search:   "tech",
		page:     2,
		pageSize: 20,
		dateFrom: "2017-01-31",
	}
	snap, err := f.snapshot(now)
	require.NoError(t, err)
	assert.Equal(t, "QQQ", snap[params.KeySymbol])
	assert.Equal(t, "close.desc,date.asc", snap[params.KeySortBy])
	assert.Equal(t, "tech", snap[params.KeyGlobalFilter])
	assert.Equal(t, "2", snap[params.KeyPage])
	assert.Equal(t, "20", snap[params.KeyPageSize])
	assert.Equal(t, "2017-01-31", snap[params.KeyDateFrom])

	_, err = gridFlags{dateFrom: "whenever"}.snapshot(now)
	require.Error(t, err)
}

func TestApplyMatches(t *testing.T) {
	schema := api.Schema{Name: "t", Columns: []api.Column{{ID: "name", Kind: api.KindString}}}
	v := &grid.View{Schema: schema}
	require.NoError(t, applyMatches(v, []string{"name=ab"}))
	assert.Equal(t, filter.Fuzzy{Query: "ab"}, v.Extra["name"])

	require.Error(t, applyMatches(v, []string{"=ab"}))
	require.Error(t, applyMatches(v, []string{"other=ab"}))
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a, ,b "))
}

func TestCompletionScripts(t *testing.T) {
	e := newEnv(t)
	out, _ := e.mustRun(t, "completion", "bash")
	assert.Contains(t, out, "gridspike-cli")
}

func TestDatasetCompletion(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "import", "--name", "homes", "--schema", "houses", e.houses)

	// completion hooks parse flags from the completed command line only
	out, _ := e.mustRun(t, "__complete", "grid", "--config", e.cfg, "--dataset", "ho")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "homes")
	assert.Contains(t, lines, "houses")
	assert.NotContains(t, lines, "stocks")
}
