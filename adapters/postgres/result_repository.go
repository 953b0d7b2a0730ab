package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"godge/domain/core"
	"godge/domain/expression"
	"godge/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// resultRow is the persisted form of one GeneResult
type resultRow struct {
	RunID                uuid.UUID       `db:"run_id"`
	Position             int             `db:"position"`
	Gene                 string          `db:"gene"`
	CIOverlap            bool            `db:"ci_test_results"`
	ZSignificant         bool            `db:"z_test_results"`
	PValue               float64         `db:"z_test_p_values"`
	MeanDiff             float64         `db:"mean_diff"`
	CorrectedSignificant sql.NullBool    `db:"z_test_cor_res"`
	CorrectedPValue      sql.NullFloat64 `db:"z_test_cor_p_values"`
	Method               string          `db:"method"`
	CreatedAt            time.Time       `db:"created_at"`
}

// runRow is the registry entry written to dge_runs for every save
type runRow struct {
	RunID       uuid.UUID `db:"run_id"`
	ResultName  string    `db:"result_name"`
	FirstTable  string    `db:"first_table"`
	SecondTable string    `db:"second_table"`
	Method      string    `db:"method"`
	Seed        int64     `db:"seed"`
	GeneCount   int       `db:"gene_count"`
	CreatedAt   time.Time `db:"created_at"`
}

// ResultRepositoryImpl implements ResultStore for PostgreSQL.
// Each result name maps to its own table, replaced on every save; the run is
// also recorded in dge_runs, which the migration runner creates.
type ResultRepositoryImpl struct {
	db *sqlx.DB
}

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(db *sqlx.DB) ports.ResultStore {
	return &ResultRepositoryImpl{db: db}
}

// Connect opens and pings a PostgreSQL connection
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Save writes results into the table called name and returns "postgres:<name>"
func (r *ResultRepositoryImpl) Save(ctx context.Context, name string, results *expression.ResultTable) (string, error) {
	if name == "" {
		return "", core.NewInvalidInputError("result name", "empty")
	}
	table := pq.QuoteIdentifier(name)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL(table)); err != nil {
		return "", fmt.Errorf("failed to create result table %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return "", fmt.Errorf("failed to clear result table %s: %w", name, err)
	}

	rows := toRows(results)
	if len(rows) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertSQL(table), rows); err != nil {
			return "", fmt.Errorf("failed to insert results into %s: %w", name, err)
		}
	}

	if _, err := tx.NamedExecContext(ctx, insertRunSQL, toRunRow(name, results)); err != nil {
		return "", fmt.Errorf("failed to register run %s: %w", results.RunID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit results: %w", err)
	}
	return "postgres:" + name, nil
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id UUID NOT NULL,
			position INTEGER NOT NULL,
			gene TEXT NOT NULL,
			ci_test_results BOOLEAN NOT NULL,
			z_test_results BOOLEAN NOT NULL,
			z_test_p_values DOUBLE PRECISION NOT NULL,
			mean_diff DOUBLE PRECISION NOT NULL,
			z_test_cor_res BOOLEAN,
			z_test_cor_p_values DOUBLE PRECISION,
			method TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, position)
		)`, table)
}

func insertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (
			run_id, position, gene, ci_test_results, z_test_results,
			z_test_p_values, mean_diff, z_test_cor_res, z_test_cor_p_values,
			method, created_at
		) VALUES (
			:run_id, :position, :gene, :ci_test_results, :z_test_results,
			:z_test_p_values, :mean_diff, :z_test_cor_res, :z_test_cor_p_values,
			:method, :created_at
		)`, table)
}

const insertRunSQL = `
		INSERT INTO dge_runs (
			run_id, result_name, first_table, second_table, method, seed, gene_count, created_at
		) VALUES (
			:run_id, :result_name, :first_table, :second_table, :method, :seed, :gene_count, :created_at
		)`

func toRunRow(name string, results *expression.ResultTable) runRow {
	return runRow{
		RunID:       results.RunID,
		ResultName:  name,
		FirstTable:  results.FirstTable,
		SecondTable: results.SecondTable,
		Method:      results.Method,
		Seed:        results.Seed,
		GeneCount:   len(results.Rows),
		CreatedAt:   results.CreatedAt,
	}
}

func toRows(results *expression.ResultTable) []resultRow {
	rows := make([]resultRow, len(results.Rows))
	for i, gr := range results.Rows {
		row := resultRow{
			RunID:        results.RunID,
			Position:     i,
			Gene:         gr.Gene,
			CIOverlap:    gr.CIOverlap,
			ZSignificant: gr.ZSignificant,
			PValue:       gr.PValue,
			MeanDiff:     gr.MeanDiff,
			Method:       results.Method,
			CreatedAt:    results.CreatedAt,
		}
		if gr.CorrectedSignificant != nil {
			row.CorrectedSignificant = sql.NullBool{Bool: *gr.CorrectedSignificant, Valid: true}
		}
		if gr.CorrectedPValue != nil {
			row.CorrectedPValue = sql.NullFloat64{Float64: *gr.CorrectedPValue, Valid: true}
		}
		rows[i] = row
	}
	return rows
}
