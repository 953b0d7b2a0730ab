// Package expression holds the tabular data model shared by the analysis
// pipeline: expression tables read from disk, the aligned pair that feeds the
// statistical runners, and the per-gene result table they produce.
package expression

import (
	"fmt"
	"math"

	"godge/domain/core"
)

// Table is one cell type's expression matrix.
// Rows are samples, columns are genes. The trailing non-gene column of the
// source file is recorded in MetadataColumn and never analysed.
type Table struct {
	Name           string
	SampleIDs      []string
	Genes          []string
	MetadataColumn string

	columns [][]float64
	index   map[string]int
}

// NewTable builds a table from gene-major columns and validates its shape.
// columns[i] holds the values of genes[i], one per sample.
func NewTable(name string, sampleIDs, genes []string, columns [][]float64) (*Table, error) {
	if len(genes) == 0 {
		return nil, core.NewInvalidInputError(name, "table has no gene columns")
	}
	if len(columns) != len(genes) {
		return nil, core.NewInvalidInputError(name, fmt.Sprintf("%d gene names but %d columns", len(genes), len(columns)))
	}

	index := make(map[string]int, len(genes))
	for i, gene := range genes {
		if gene == "" {
			return nil, core.NewInvalidInputError(name, fmt.Sprintf("gene column %d has an empty name", i))
		}
		if _, dup := index[gene]; dup {
			return nil, core.NewInvalidInputError(name, fmt.Sprintf("duplicate gene column %q", gene))
		}
		index[gene] = i

		if len(columns[i]) != len(sampleIDs) {
			return nil, core.NewInvalidInputError(name, fmt.Sprintf("gene %q has %d values for %d samples", gene, len(columns[i]), len(sampleIDs)))
		}
		for row, v := range columns[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, core.NewInvalidInputError(name, fmt.Sprintf("gene %q sample %d is not a finite number", gene, row))
			}
		}
	}

	return &Table{
		Name:      name,
		SampleIDs: sampleIDs,
		Genes:     genes,
		columns:   columns,
		index:     index,
	}, nil
}

// SampleCount returns the number of rows
func (t *Table) SampleCount() int {
	return len(t.SampleIDs)
}

// HasGene reports whether the table carries a column for gene
func (t *Table) HasGene(gene string) bool {
	_, ok := t.index[gene]
	return ok
}

// Column returns the expression values of one gene.
// The returned slice is shared with the table and must not be modified.
func (t *Table) Column(gene string) ([]float64, error) {
	i, ok := t.index[gene]
	if !ok {
		return nil, core.NewColumnAlignmentError(fmt.Sprintf("gene %q missing from table %s", gene, t.Name))
	}
	return t.columns[i], nil
}
