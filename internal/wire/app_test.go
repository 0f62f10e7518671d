package wire

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/gridspike/internal/config"
	"github.com/mithrel/gridspike/internal/dataset"
	"github.com/mithrel/gridspike/internal/debounce"
	"github.com/mithrel/gridspike/internal/params"
)

const housesCSV = `price,area,bedrooms,bathrooms,stories,mainroad,guestroom,basement,hotwaterheating,airconditioning,parking,prefarea,furnishingstatus
100,50,2,1,1,yes,no,no,no,no,0,no,furnished
200,80,3,2,2,yes,no,yes,no,yes,1,no,unfurnished
300,120,3,2,2,no,yes,no,no,yes,2,yes,semi-furnished
`

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, config.Load(context.Background(), v))
	v.Set("data_dir", dir)
	v.Set("log.level", "error")

	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app, dir
}

func TestLoadDatasetSources(t *testing.T) {
	app, dir := newTestApp(t)
	ctx := context.Background()
	csvPath := filepath.Join(dir, "houses.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(housesCSV), 0o600))

	ds, err := app.LoadDataset(ctx, "", csvPath)
	require.NoError(t, err)
	assert.Equal(t, "houses", ds.Schema.Name)
	assert.Len(t, ds.Rows, 3)

	_, err = app.LoadDataset(ctx, "houses", "")
	assert.ErrorContains(t, err, "not found")

	_, err = app.Store.Datasets.PutDataset(ctx, *ds)
	require.NoError(t, err)
	stored, err := app.LoadDataset(ctx, "houses", "")
	require.NoError(t, err)
	assert.Equal(t, ds.Rows, stored.Rows)

	app.Cfg.Set("datasets.homes.file", csvPath)
	app.Cfg.Set("datasets.homes.schema", "houses")
	homes, err := app.LoadDataset(ctx, "homes", "")
	require.NoError(t, err)
	assert.Equal(t, "homes", homes.Schema.Name)
	assert.True(t, homes.Schema.Has("furnishingstatus"))
}

func TestNewViewUsesConfig(t *testing.T) {
	app, _ := newTestApp(t)
	app.Cfg.Set("grid.page_size", 2)
	ds, err := dataset.Parse([]byte(housesCSV), "houses")
	require.NoError(t, err)

	store := params.NewMemoryStore(params.Snapshot{"page": "2", "priceMin": "150"})
	v := app.NewView(ds, store, debounce.NewManualScheduler())
	t.Cleanup(v.Controller.Close)

	assert.Equal(t, 2, v.Pager.PageSize())
	assert.Equal(t, []int{10, 20, 50, 100}, v.Pager.SizeOptions())

	res := v.Compute(ds.Rows)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.PageCount)
	assert.Equal(t, 1, res.Page)
}
