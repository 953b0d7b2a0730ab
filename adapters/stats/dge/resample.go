package dge

import (
	"context"
	"fmt"
	"math/rand"

	"godge/domain/core"
	"godge/domain/expression"
	"godge/internal"
	"godge/ports"

	"github.com/montanaflynn/stats"
)

// Sizes used by MeanDifferences unless overridden with WithSizes
const (
	DefaultResampleSize  = 100
	DefaultResampleCount = 100
)

// RNG stream names, one per table side
const (
	streamFirst  = "resample.first"
	streamSecond = "resample.second"
)

// ResampledMean draws nSamples samples of sampleSize values with replacement
// from population and returns the mean of every drawn value.
// It is a Monte Carlo estimate of the population mean; rng fixes the draws.
func ResampledMean(rng *rand.Rand, population []float64, sampleSize, nSamples int) (float64, error) {
	if rng == nil {
		return 0, core.NewInvalidInputError("rng", "random source is required")
	}
	if len(population) == 0 {
		return 0, core.NewInvalidInputError("population", "empty")
	}
	if sampleSize <= 0 || nSamples <= 0 {
		return 0, core.NewInvalidInputError("resample sizes", fmt.Sprintf("sample_size=%d n_samples=%d must be positive", sampleSize, nSamples))
	}
	if err := checkFinite(population); err != nil {
		return 0, err
	}

	drawn := make([]float64, 0, sampleSize*nSamples)
	for s := 0; s < nSamples; s++ {
		for i := 0; i < sampleSize; i++ {
			drawn = append(drawn, population[rng.Intn(len(population))])
		}
	}
	return stats.Mean(drawn)
}

// ResampledMeanEstimator computes per-gene resampled mean differences
type ResampledMeanEstimator struct {
	rng        ports.RNGPort
	sampleSize int
	nSamples   int
	logger     *internal.Logger
}

// NewResampledMeanEstimator creates an estimator drawing from rngPort
func NewResampledMeanEstimator(rngPort ports.RNGPort, logger *internal.Logger) *ResampledMeanEstimator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ResampledMeanEstimator{
		rng:        rngPort,
		sampleSize: DefaultResampleSize,
		nSamples:   DefaultResampleCount,
		logger:     logger.With("resample"),
	}
}

// WithSizes returns a copy of the estimator using different sample sizes
func (e *ResampledMeanEstimator) WithSizes(sampleSize, nSamples int) *ResampledMeanEstimator {
	cp := *e
	cp.sampleSize = sampleSize
	cp.nSamples = nSamples
	return &cp
}

// GeneMean estimates one gene's mean in one table using the stream for (side, gene, seed)
func (e *ResampledMeanEstimator) GeneMean(ctx context.Context, side, gene string, column []float64, seed int64) (float64, error) {
	r, err := e.rng.Stream(ctx, side, gene, seed)
	if err != nil {
		return 0, err
	}
	return ResampledMean(r, column, e.sampleSize, e.nSamples)
}

// MeanDifferences returns first-table minus second-table resampled means per gene.
// A fixed seed gives identical output on every call.
func (e *ResampledMeanEstimator) MeanDifferences(ctx context.Context, pair *expression.AlignedPair, seed int64) ([]float64, error) {
	diffs := make([]float64, 0, len(pair.Genes))
	for _, gene := range pair.Genes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		first, second, err := pair.Columns(gene)
		if err != nil {
			return nil, err
		}

		firstMean, err := e.GeneMean(ctx, streamFirst, gene, first, seed)
		if err != nil {
			return nil, fmt.Errorf("gene %s in %s: %w", gene, pair.First.Name, err)
		}
		secondMean, err := e.GeneMean(ctx, streamSecond, gene, second, seed)
		if err != nil {
			return nil, fmt.Errorf("gene %s in %s: %w", gene, pair.Second.Name, err)
		}

		e.logger.Trace("%s first=%g second=%g", gene, firstMean, secondMean)
		diffs = append(diffs, firstMean-secondMean)
	}
	e.logger.Debug("estimated %d mean differences (size=%d, samples=%d)", len(diffs), e.sampleSize, e.nSamples)
	return diffs, nil
}
