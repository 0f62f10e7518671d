package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/gridspike/internal/config"
	"github.com/mithrel/gridspike/internal/dataset"
	"github.com/mithrel/gridspike/internal/db"
	"github.com/mithrel/gridspike/internal/debounce"
	"github.com/mithrel/gridspike/internal/filterstate"
	"github.com/mithrel/gridspike/internal/grid"
	"github.com/mithrel/gridspike/internal/logging"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/pkg/api"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg    *viper.Viper
	Log    *zap.SugaredLogger
	Store  *db.Store
	closer io.Closer
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger, err := logging.New(v.GetString("log.level"), v.GetString("log.format"))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	dbPath := config.ResolveDBPath(v)
	store, closer, err := db.Open(ctx, "sqlite://"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dbPath, err)
	}
	logger.Debugw("store opened", "path", dbPath)
	return &App{Cfg: v, Log: logger, Store: store, closer: closer}, nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	_ = a.Log.Sync()
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// LoadDataset resolves a dataset by precedence: an explicit file, a
// [datasets.<name>] source from config, then the imported copy in the store.
func (a *App) LoadDataset(ctx context.Context, name, file string) (*api.Dataset, error) {
	if file != "" {
		if name == "" {
			name = schemaNameFromFile(file)
		}
		a.Log.Debugw("loading csv", "dataset", name, "file", file)
		return dataset.LoadFile(file, name)
	}
	if src, ok := config.LookupDataset(a.Cfg, name); ok {
		a.Log.Debugw("loading configured csv", "dataset", name, "file", src.File)
		ds, err := dataset.LoadFile(src.File, src.Schema)
		if err != nil {
			return nil, err
		}
		ds.Schema.Name = name
		return ds, nil
	}
	ds, err := a.Store.Datasets.LoadDataset(ctx, name)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("dataset %q %w; import it or pass --file", name, db.ErrNotFound)
		}
		return nil, err
	}
	return &ds, nil
}

// ViewOptions returns controller options from config.
func (a *App) ViewOptions(sched debounce.Scheduler) filterstate.Options {
	return filterstate.Options{
		Scheduler:   sched,
		SearchDelay: config.SearchDebounce(a.Cfg),
		MaxSortKeys: a.Cfg.GetInt("grid.max_sort_keys"),
	}
}

// NewView builds a grid view over ds whose state lives in store. Pager page
// and size are restored from the store snapshot.
func (a *App) NewView(ds *api.Dataset, store params.Store, sched debounce.Scheduler) *grid.View {
	schemaName := ds.Schema.Name
	if _, ok := dataset.Builtin(schemaName); !ok {
		if src, ok := config.LookupDataset(a.Cfg, schemaName); ok {
			schemaName = src.Schema
		}
	}
	ctl := filterstate.NewControlled(store, filterstate.ControlsFor(schemaName), a.ViewOptions(sched))
	pageSize := a.Cfg.GetInt("grid.page_size")
	v := grid.New(ds.Schema, ctl, pageSize)
	v.Pager.SetSizeOptions(a.Cfg.GetIntSlice("grid.page_size_options"))
	v.Pager.SetTotal(len(ds.Rows))
	v.Pager.Restore(store.Snapshot(), pageSize)
	return v
}

func schemaNameFromFile(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
