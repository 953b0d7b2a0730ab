package ports

import (
	"context"

	"godge/domain/expression"
)

// TableSource loads an expression table from a location such as a file path
type TableSource interface {
	Load(ctx context.Context, location string) (*expression.Table, error)
}
