// Package dbx provides the tiny DB abstraction shared by stores: a minimal
// interface (DBTX) implemented by both *sql.DB and *sql.Tx, so a store can be
// bound to either.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our stores.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
