//go:build !mem

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/gridspike/internal/dataset"
	"github.com/mithrel/gridspike/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// BeginTx starts a transaction callers can thread through WithTx.
func (s *sqliteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// inTx runs fn in the context transaction when there is one, otherwise in
// a fresh transaction committed on success.
func (s *sqliteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if tx := TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// PutDataset replaces any dataset stored under the same name.
func (s *sqliteStore) PutDataset(ctx context.Context, ds api.Dataset) (api.DatasetInfo, error) {
	name := strings.TrimSpace(ds.Schema.Name)
	if name == "" {
		return api.DatasetInfo{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	schemaJSON, err := json.Marshal(ds.Schema)
	if err != nil {
		return api.DatasetInfo{}, err
	}
	info := api.DatasetInfo{
		Name:       name,
		Source:     ds.Source,
		Checksum:   ds.Checksum,
		RowCount:   len(ds.Rows),
		ImportedAt: time.Now().UTC().UnixMilli(),
	}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if err := deleteTx(ctx, tx, name); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO datasets(name, schema, source, checksum, row_count, imported_at) VALUES(?,?,?,?,?,?)`,
			info.Name, string(schemaJSON), info.Source, info.Checksum, info.RowCount, info.ImportedAt); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO dataset_rows(dataset, pos, id, fields) VALUES(?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, r := range ds.Rows {
			fields, err := json.Marshal(r.Fields)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			if _, err := stmt.ExecContext(ctx, name, i, r.ID, string(fields)); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return api.DatasetInfo{}, err
	}
	return info, nil
}

func (s *sqliteStore) LoadDataset(ctx context.Context, name string) (api.Dataset, error) {
	var ds api.Dataset
	var schemaJSON string
	row := s.db.QueryRowContext(ctx, `SELECT schema, source, checksum FROM datasets WHERE name=?`, name)
	if err := row.Scan(&schemaJSON, &ds.Source, &ds.Checksum); err != nil {
		if err == sql.ErrNoRows {
			return api.Dataset{}, ErrNotFound
		}
		return api.Dataset{}, err
	}
	if err := json.Unmarshal([]byte(schemaJSON), &ds.Schema); err != nil {
		return api.Dataset{}, fmt.Errorf("decode schema: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, fields FROM dataset_rows WHERE dataset=? ORDER BY pos ASC`, name)
	if err != nil {
		return api.Dataset{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var r api.Row
		var fields string
		if err := rows.Scan(&r.ID, &fields); err != nil {
			return api.Dataset{}, err
		}
		if err := json.Unmarshal([]byte(fields), &r.Fields); err != nil {
			return api.Dataset{}, fmt.Errorf("decode row %s: %w", r.ID, err)
		}
		ds.Rows = append(ds.Rows, dataset.Coerce(ds.Schema, r))
	}
	return ds, rows.Err()
}

func (s *sqliteStore) ListDatasets(ctx context.Context) ([]api.DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, source, checksum, row_count, imported_at FROM datasets ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.DatasetInfo
	for rows.Next() {
		var d api.DatasetInfo
		if err := rows.Scan(&d.Name, &d.Source, &d.Checksum, &d.RowCount, &d.ImportedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DeleteDataset(ctx context.Context, name string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets WHERE name=?`, name).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return deleteTx(ctx, tx, name)
	})
}

// deleteTx removes a dataset and its rows. Rows are deleted explicitly since
// the foreign_keys pragma only holds on the connection that set it.
func deleteTx(ctx context.Context, tx *sql.Tx, name string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_rows WHERE dataset=?`, name); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name=?`, name)
	return err
}

// openSQLite connects with the modernc.org/sqlite driver and ensures the
// schema exists.
func openSQLite(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	// rows cascade with their dataset
	if _, err := dbh.ExecContext(ctx, `PRAGMA foreign_keys=ON;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	return &Store{Datasets: &sqliteStore{db: dbh}}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS datasets (
  name TEXT PRIMARY KEY,
  schema TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  checksum TEXT NOT NULL DEFAULT '',
  row_count INTEGER NOT NULL,
  imported_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS dataset_rows (
  dataset TEXT NOT NULL,
  pos INTEGER NOT NULL,
  id TEXT NOT NULL,
  fields TEXT NOT NULL,
  PRIMARY KEY(dataset, pos),
  FOREIGN KEY(dataset) REFERENCES datasets(name) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_rows_dataset_id ON dataset_rows(dataset, id);
`)
	return err
}
