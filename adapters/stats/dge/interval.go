// Package dge implements the per-gene statistics used for differential
// expression between two cell types: t-based confidence intervals and their
// overlap, two-sample z-tests, multiple-comparison correction and a
// resampled estimate of the mean difference.
package dge

import (
	"fmt"
	"math"

	"godge/domain/core"
	domainstats "godge/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ConfidenceLevel is the coverage of every interval built by ConfidenceInterval
const ConfidenceLevel = 0.95

// ConfidenceInterval returns the 95% Student's t interval for the sample mean
func ConfidenceInterval(sample []float64) (domainstats.Interval, error) {
	return ConfidenceIntervalAt(sample, ConfidenceLevel)
}

// ConfidenceIntervalAt returns the Student's t interval for the sample mean at
// the given two-sided level, with df = n-1 and scale = standard error of the mean.
func ConfidenceIntervalAt(sample []float64, level float64) (domainstats.Interval, error) {
	if !(level > 0 && level < 1) {
		return domainstats.Interval{}, core.NewInvalidInputError("confidence level", fmt.Sprintf("%g is outside (0, 1)", level))
	}
	if err := checkFinite(sample); err != nil {
		return domainstats.Interval{}, err
	}
	n := len(sample)
	if n < 2 {
		return domainstats.Interval{}, core.NewInsufficientSampleError(n, 2)
	}

	mean, err := stats.Mean(sample)
	if err != nil {
		return domainstats.Interval{}, core.NewInvalidInputError("sample", err.Error())
	}
	sd, err := stats.StandardDeviationSample(sample)
	if err != nil {
		return domainstats.Interval{}, core.NewInvalidInputError("sample", err.Error())
	}

	sem := sd / math.Sqrt(float64(n))
	if sem == 0 {
		return domainstats.Interval{Lower: mean, Upper: mean}, nil
	}

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	margin := t.Quantile(0.5+level/2) * sem

	return domainstats.Interval{Lower: mean - margin, Upper: mean + margin}, nil
}

// checkFinite rejects NaN and infinite values
func checkFinite(sample []float64) error {
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewInvalidInputError("sample", fmt.Sprintf("value %d is %v", i, v))
		}
	}
	return nil
}
