package postgres

import (
	"context"
	"database/sql"
)

// Querier is the query surface shared by *sql.DB and *sql.Tx. Every
// repository here runs against it, so a repository can execute
// standalone or join a transaction a caller already opened.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
