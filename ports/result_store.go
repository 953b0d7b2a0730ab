package ports

import (
	"context"

	"godge/domain/expression"
)

// ResultStore persists a result table under a caller-chosen name
type ResultStore interface {
	// Save writes the table and returns where it ended up (file path, table name)
	Save(ctx context.Context, name string, results *expression.ResultTable) (string, error)
}
