// Package csvtable reads expression tables from CSV files and writes result
// tables back to CSV.
//
// Input layout: a header row, a leading index column holding sample IDs,
// one column per gene, and a trailing metadata column that is not analysed.
package csvtable

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"godge/domain/core"
	"godge/domain/expression"
)

// minColumns is index + one gene + metadata
const minColumns = 3

// Reader loads expression tables from the local filesystem
type Reader struct{}

// NewReader creates a CSV table reader
func NewReader() *Reader {
	return &Reader{}
}

// Load opens path and parses it as an expression table named after the file
func (r *Reader) Load(ctx context.Context, path string) (*expression.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, core.NewFileAccessError(path, fmt.Errorf("empty path"))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, core.NewFileAccessError(path, err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, file)
}

// Parse reads an expression table from r
func Parse(name string, r io.Reader) (*expression.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewInvalidInputError(name, fmt.Sprintf("failed to read CSV data: %v", err))
	}
	if len(records) == 0 {
		return nil, core.NewInvalidInputError(name, "CSV file is empty")
	}

	// First row is headers
	headers := records[0]
	dataRows := records[1:]
	if len(headers) < minColumns {
		return nil, core.NewInvalidInputError(name, fmt.Sprintf("need an index column, at least one gene column and a metadata column, got %d columns", len(headers)))
	}

	genes := make([]string, 0, len(headers)-2)
	for _, h := range headers[1 : len(headers)-1] {
		genes = append(genes, strings.TrimSpace(h))
	}

	sampleIDs := make([]string, len(dataRows))
	columns := make([][]float64, len(genes))
	for g := range columns {
		columns[g] = make([]float64, len(dataRows))
	}

	for i, record := range dataRows {
		sampleIDs[i] = strings.TrimSpace(record[0])
		for g := range genes {
			cell := strings.TrimSpace(record[g+1])
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, core.NewInvalidInputError(name, fmt.Sprintf("row %d gene %q: %q is not numeric", i+1, genes[g], cell))
			}
			columns[g][i] = v
		}
	}

	table, err := expression.NewTable(name, sampleIDs, genes, columns)
	if err != nil {
		return nil, err
	}
	table.MetadataColumn = strings.TrimSpace(headers[len(headers)-1])
	return table, nil
}
