package dge

import (
	"context"
	"fmt"

	"godge/domain/expression"
	domainstats "godge/domain/stats"
	"godge/internal"
)

// GeneIntervals holds the two confidence intervals computed for one gene
type GeneIntervals struct {
	Gene   string               `json:"gene"`
	First  domainstats.Interval `json:"first"`
	Second domainstats.Interval `json:"second"`
}

// Overlap reports whether the first table's interval overlaps the second's
func (g GeneIntervals) Overlap() bool {
	return g.First.Overlaps(g.Second)
}

// CITestRunner compares per-gene confidence intervals between two tables
type CITestRunner struct {
	logger *internal.Logger
}

// NewCITestRunner creates a CI overlap runner
func NewCITestRunner(logger *internal.Logger) *CITestRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CITestRunner{logger: logger.With("ci")}
}

// Intervals computes both intervals for every gene in pair order
func (r *CITestRunner) Intervals(ctx context.Context, pair *expression.AlignedPair) ([]GeneIntervals, error) {
	out := make([]GeneIntervals, 0, len(pair.Genes))
	for _, gene := range pair.Genes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		first, second, err := pair.Columns(gene)
		if err != nil {
			return nil, err
		}
		firstCI, err := ConfidenceInterval(first)
		if err != nil {
			return nil, fmt.Errorf("gene %s in %s: %w", gene, pair.First.Name, err)
		}
		secondCI, err := ConfidenceInterval(second)
		if err != nil {
			return nil, fmt.Errorf("gene %s in %s: %w", gene, pair.Second.Name, err)
		}

		r.logger.Trace("%s first=%v second=%v", gene, firstCI, secondCI)
		out = append(out, GeneIntervals{Gene: gene, First: firstCI, Second: secondCI})
	}
	return out, nil
}

// Run returns one overlap flag per gene, in pair order.
// true means the intervals overlap (no evidence of differential expression).
func (r *CITestRunner) Run(ctx context.Context, pair *expression.AlignedPair) ([]bool, error) {
	intervals, err := r.Intervals(ctx, pair)
	if err != nil {
		return nil, err
	}
	results := make([]bool, len(intervals))
	for i, gi := range intervals {
		results[i] = gi.Overlap()
	}
	r.logger.Debug("compared %d gene intervals", len(results))
	return results, nil
}
