package expression

import (
	"fmt"
	"sort"
	"strings"

	"godge/domain/core"
)

// AlignMode selects how the gene sets of two tables are reconciled
type AlignMode string

const (
	// AlignStrict requires both tables to list the same genes in the same order
	AlignStrict AlignMode = "strict"
	// AlignIntersect keeps the genes present in both tables, sorted by name
	AlignIntersect AlignMode = "intersect"
)

// ParseAlignMode converts a user-supplied name into an AlignMode
func ParseAlignMode(s string) (AlignMode, error) {
	switch AlignMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AlignStrict:
		return AlignStrict, nil
	case AlignIntersect:
		return AlignIntersect, nil
	default:
		return "", core.NewInvalidInputError("align mode", fmt.Sprintf("unknown mode %q", s))
	}
}

// AlignedPair is two tables whose gene columns have been validated against each other
type AlignedPair struct {
	First  *Table
	Second *Table
	Genes  []string
}

// Columns returns gene's values from the first and second table
func (p *AlignedPair) Columns(gene string) (first, second []float64, err error) {
	first, err = p.First.Column(gene)
	if err != nil {
		return nil, nil, err
	}
	second, err = p.Second.Column(gene)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// Align validates the gene columns of first and second and returns the
// ordered gene list every runner iterates over.
func Align(first, second *Table, mode AlignMode) (*AlignedPair, error) {
	if first == nil || second == nil {
		return nil, core.NewInvalidInputError("tables", "both tables are required")
	}

	switch mode {
	case AlignStrict, "":
		if err := checkSameOrder(first, second); err != nil {
			return nil, err
		}
		genes := make([]string, len(first.Genes))
		copy(genes, first.Genes)
		return &AlignedPair{First: first, Second: second, Genes: genes}, nil

	case AlignIntersect:
		var genes []string
		for _, gene := range first.Genes {
			if second.HasGene(gene) {
				genes = append(genes, gene)
			}
		}
		if len(genes) == 0 {
			return nil, core.NewColumnAlignmentError(fmt.Sprintf("tables %s and %s share no genes", first.Name, second.Name))
		}
		sort.Strings(genes)
		return &AlignedPair{First: first, Second: second, Genes: genes}, nil

	default:
		return nil, core.NewInvalidInputError("align mode", fmt.Sprintf("unknown mode %q", mode))
	}
}

func checkSameOrder(first, second *Table) error {
	if len(first.Genes) != len(second.Genes) {
		return core.NewColumnAlignmentError(fmt.Sprintf("table %s has %d genes, table %s has %d",
			first.Name, len(first.Genes), second.Name, len(second.Genes)))
	}
	for i := range first.Genes {
		if first.Genes[i] != second.Genes[i] {
			return core.NewColumnAlignmentError(fmt.Sprintf("column %d is %q in %s but %q in %s",
				i, first.Genes[i], first.Name, second.Genes[i], second.Name))
		}
	}
	return nil
}
