package csvtable

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"godge/domain/core"
	"godge/domain/expression"
)

// Store writes result tables to <dir>/<name>.csv
type Store struct {
	dir string
}

// NewStore creates a CSV result store rooted at dir ("" means the working directory)
func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Path returns the file a result named name is written to
func (s *Store) Path(name string) string {
	file := name + ".csv"
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.dir, file)
}

// Save writes results as CSV and returns the file path
func (s *Store) Save(ctx context.Context, name string, results *expression.ResultTable) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" {
		return "", core.NewInvalidInputError("result name", "empty")
	}

	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", core.NewFileAccessError(path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", core.NewFileAccessError(path, err)
	}
	if err := Write(file, results); err != nil {
		file.Close()
		os.Remove(path) // Clean up on failure
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", core.NewFileAccessError(path, err)
	}
	return path, nil
}

// Write encodes results as CSV, one row per gene
func Write(w io.Writer, results *expression.ResultTable) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(results.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range results.Rows {
		record := []string{
			row.Gene,
			formatBool(row.CIOverlap),
			formatBool(row.ZSignificant),
			formatFloat(row.PValue),
			formatFloat(row.MeanDiff),
		}
		if results.HasCorrection() {
			record = append(record, formatOptionalBool(row.CorrectedSignificant), formatOptionalFloat(row.CorrectedPValue))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", row.Gene, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatBool matches the True/False spelling of the original result files
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOptionalBool(b *bool) string {
	if b == nil {
		return ""
	}
	return formatBool(*b)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
