package dge

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"godge/domain/expression"

	"github.com/stretchr/testify/require"
)

func sampleIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("cell_%d", i)
	}
	return ids
}

func newTable(t *testing.T, name string, genes []string, columns ...[]float64) *expression.Table {
	t.Helper()
	table, err := expression.NewTable(name, sampleIDs(len(columns[0])), genes, columns)
	require.NoError(t, err)
	return table
}

func newPair(t *testing.T, first, second *expression.Table) *expression.AlignedPair {
	t.Helper()
	pair, err := expression.Align(first, second, expression.AlignStrict)
	require.NoError(t, err)
	return pair
}

func normalSample(rng *rand.Rand, n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*rng.NormFloat64()
	}
	return out
}

func shifted(values []float64, by float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v + by
	}
	return out
}

func sem(values []float64) float64 {
	n := float64(len(values))
	var sum, sq float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq/(n-1)) / math.Sqrt(n)
}

// separatedPair builds 3-gene, 50-sample tables where A is identical in both,
// B is shifted by 5 standard errors and C by a fraction of one.
func separatedPair(t *testing.T) *expression.AlignedPair {
	t.Helper()
	rng := rand.New(rand.NewSource(2024))
	a := normalSample(rng, 50, 10, 2)
	b := normalSample(rng, 50, 20, 3)
	c := normalSample(rng, 50, 5, 1)

	genes := []string{"A", "B", "C"}
	first := newTable(t, "first", genes, a, b, c)
	second := newTable(t, "second", genes, a, shifted(b, 5*sem(b)), shifted(c, 0.2*sem(c)))
	return newPair(t, first, second)
}
