package db

import (
	"context"
	"errors"
	"io"

	"github.com/mithrel/gridspike/pkg/api"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid dataset")
)

// DatasetRepo persists imported datasets.
type DatasetRepo interface {
	PutDataset(ctx context.Context, ds api.Dataset) (api.DatasetInfo, error)
	LoadDataset(ctx context.Context, name string) (api.Dataset, error)
	ListDatasets(ctx context.Context) ([]api.DatasetInfo, error)
	DeleteDataset(ctx context.Context, name string) error
}

// Store groups the repositories behind one handle.
type Store struct {
	Datasets DatasetRepo
}

// Open returns a Store for a sqlite:// DSN. Builds with the mem tag get an
// in-memory store instead.
func Open(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	return openSQLite(ctx, dsn)
}
