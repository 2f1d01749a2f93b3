package repository

import (
	"context"
	"database/sql"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/infrastructure/persistence/sqlite"
)

// executor abstracts over *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getExecutor returns the transaction bound to the context, or the pool
func getExecutor(ctx context.Context, db *sql.DB) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return db
}
