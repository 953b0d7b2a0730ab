package migration

import (
	"context"

	"godge/internal"
	"godge/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db sqlx.ExecerContext) error
	Version() string
}

// MigrationRunner creates the schema shared by all result tables
type MigrationRunner struct {
	version string
	logger  *internal.Logger
}

// NewRunner creates a new migration runner
func NewRunner(logger *internal.Logger) *MigrationRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MigrationRunner{
		version: "1.0.0",
		logger:  logger.With("migration"),
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Statements returns the DDL run by Run, in order
func (r *MigrationRunner) Statements() []string {
	return []string{
		createRunsTable,
		"CREATE INDEX IF NOT EXISTS idx_dge_runs_result_name ON dge_runs(result_name)",
		"CREATE INDEX IF NOT EXISTS idx_dge_runs_created_at ON dge_runs(created_at DESC)",
	}
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db sqlx.ExecerContext) error {
	stmts := r.Statements()
	if _, err := db.ExecContext(ctx, stmts[0]); err != nil {
		return errors.Wrap(err, "failed to create dge_runs table")
	}

	for _, idxSQL := range stmts[1:] {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			r.logger.Warn("failed to create index: %v", err)
		}
	}

	r.logger.Debug("schema at version %s", r.version)
	return nil
}

// dge_runs records every persisted result table
const createRunsTable = `
		CREATE TABLE IF NOT EXISTS dge_runs (
			run_id UUID PRIMARY KEY,
			result_name TEXT NOT NULL,
			first_table TEXT NOT NULL,
			second_table TEXT NOT NULL,
			method TEXT NOT NULL DEFAULT '',
			seed BIGINT NOT NULL,
			gene_count INTEGER NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`
