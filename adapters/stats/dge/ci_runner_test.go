package dge

import (
	"context"
	"testing"

	"godge/domain/core"
	"godge/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCITestRunner_SeparatedGenes(t *testing.T) {
	runner := NewCITestRunner(internal.Discard)
	results, err := runner.Run(context.Background(), separatedPair(t))
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.True(t, results[0], "identical gene A should overlap")
	assert.False(t, results[1], "gene B shifted by 5 SE should not overlap")
	assert.True(t, results[2], "gene C barely shifted should overlap")
}

func TestCITestRunner_Idempotent(t *testing.T) {
	runner := NewCITestRunner(internal.Discard)
	pair := separatedPair(t)

	first, err := runner.Run(context.Background(), pair)
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), pair)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCITestRunner_IntervalsCarryGeneNames(t *testing.T) {
	runner := NewCITestRunner(internal.Discard)
	intervals, err := runner.Intervals(context.Background(), separatedPair(t))
	require.NoError(t, err)

	require.Len(t, intervals, 3)
	assert.Equal(t, "B", intervals[1].Gene)
	assert.Less(t, intervals[1].First.Upper, intervals[1].Second.Lower)
}

func TestCITestRunner_PropagatesInsufficientSample(t *testing.T) {
	first := newTable(t, "first", []string{"A"}, []float64{1})
	second := newTable(t, "second", []string{"A"}, []float64{2, 3})

	_, err := NewCITestRunner(internal.Discard).Run(context.Background(), newPair(t, first, second))
	assert.ErrorIs(t, err, core.ErrInsufficientSample)
	assert.Contains(t, err.Error(), "gene A in first")
}

func TestCITestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCITestRunner(internal.Discard).Run(ctx, separatedPair(t))
	assert.ErrorIs(t, err, context.Canceled)
}
