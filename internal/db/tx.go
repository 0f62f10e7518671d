package db

import (
	"context"
	"database/sql"
	"errors"
)

type txKey struct{}

// ErrNoTx is returned by Begin when the backing repo has no transactions.
var ErrNoTx = errors.New("transactions not supported")

// WithTx stores a transaction in the context for repository methods to reuse.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns a transaction from context when available.
func TxFromContext(ctx context.Context) *sql.Tx {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

type TxProvider interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// Begin opens a transaction on the dataset repo and returns a context that
// carries it.
func (s *Store) Begin(ctx context.Context) (context.Context, *sql.Tx, error) {
	p, ok := s.Datasets.(TxProvider)
	if !ok {
		return ctx, nil, ErrNoTx
	}
	tx, err := p.BeginTx(ctx)
	if err != nil {
		return ctx, nil, err
	}
	return WithTx(ctx, tx), tx, nil
}
