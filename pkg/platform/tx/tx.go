// Package tx carries an open *sql.Tx through context so stores participate in
// a caller-owned transaction without changing their signatures.
package tx

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx stores an open transaction in the context.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// From retrieves the transaction from the context, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(txKey{}).(*sql.Tx)
	return t, ok
}

// Querier is the subset of *sql.DB / *sql.Tx the stores use.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// QuerierFrom returns the context transaction when present, else the fallback
// database handle. Stores call this on every operation so the same code runs
// inside and outside transactions.
func QuerierFrom(ctx context.Context, fallback *sql.DB) Querier {
	if t, ok := From(ctx); ok {
		return t
	}
	return fallback
}
