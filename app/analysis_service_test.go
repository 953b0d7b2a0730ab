package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"godge/adapters/rng"
	"godge/adapters/stats/dge"
	"godge/domain/core"
	"godge/domain/expression"
	"godge/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) Load(ctx context.Context, location string) (*expression.Table, error) {
	args := m.Called(ctx, location)
	table, _ := args.Get(0).(*expression.Table)
	return table, args.Error(1)
}

type MockResultStore struct {
	mock.Mock
}

func (m *MockResultStore) Save(ctx context.Context, name string, results *expression.ResultTable) (string, error) {
	args := m.Called(ctx, name, results)
	return args.String(0), args.Error(1)
}

func newService(source *MockTableSource, store *MockResultStore) *AnalysisService {
	s := NewAnalysisService(
		dge.NewCITestRunner(internal.Discard),
		dge.NewZTestRunner(dge.VariancePooled, internal.Discard),
		dge.NewResampledMeanEstimator(rng.NewAdapter(), internal.Discard),
		nil, nil, internal.Discard,
	)
	if source != nil {
		s.source = source
	}
	if store != nil {
		s.store = store
	}
	return s
}

func column(r *rand.Rand, n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*r.NormFloat64()
	}
	return out
}

func plus(values []float64, by float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v + by
	}
	return out
}

func standardError(values []float64) float64 {
	var sum, sq float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq/float64(len(values)-1)) / math.Sqrt(float64(len(values)))
}

func mustTable(t *testing.T, name string, genes []string, columns ...[]float64) *expression.Table {
	t.Helper()
	ids := make([]string, len(columns[0]))
	for i := range ids {
		ids[i] = fmt.Sprintf("cell_%d", i)
	}
	table, err := expression.NewTable(name, ids, genes, columns)
	require.NoError(t, err)
	return table
}

// tables returns two 50-sample tables: gene A is identical, gene B is
// shifted by five standard errors.
func tables(t *testing.T) (*expression.Table, *expression.Table) {
	t.Helper()
	r := rand.New(rand.NewSource(7))
	a := column(r, 50, 10, 2)
	b := column(r, 50, 20, 3)
	c := column(r, 50, 1, 0.5)

	genes := []string{"A", "B", "C"}
	first := mustTable(t, "cell_type_1", genes, a, b, c)
	second := mustTable(t, "cell_type_2", genes, a, plus(b, 5*standardError(b)), c)
	return first, second
}

func TestAnalyze_WithoutCorrection(t *testing.T) {
	first, second := tables(t)
	seed := int64(1)

	results, err := newService(nil, nil).Analyze(context.Background(), first, second, AnalysisOptions{Seed: &seed})
	require.NoError(t, err)

	assert.False(t, results.HasCorrection())
	assert.Equal(t, []string{"A", "B", "C"}, results.Genes())
	assert.Equal(t, "cell_type_1", results.FirstTable)
	assert.Equal(t, int64(1), results.Seed)

	a, ok := results.Row("A")
	require.True(t, ok)
	assert.True(t, a.CIOverlap)
	assert.False(t, a.ZSignificant)
	assert.InDelta(t, 1.0, a.PValue, 1e-12)
	assert.InDelta(t, 0.0, a.MeanDiff, 0.5)
	assert.Nil(t, a.CorrectedPValue)
	assert.Nil(t, a.CorrectedSignificant)

	b, ok := results.Row("B")
	require.True(t, ok)
	assert.False(t, b.CIOverlap)
	assert.True(t, b.ZSignificant)
	assert.Less(t, b.PValue, 0.05)
}

func TestAnalyze_WithCorrection(t *testing.T) {
	first, second := tables(t)
	seed := int64(1)

	results, err := newService(nil, nil).Analyze(context.Background(), first, second, AnalysisOptions{Method: "bonferroni", Seed: &seed})
	require.NoError(t, err)

	assert.True(t, results.HasCorrection())
	assert.Equal(t, "bonferroni", results.Method)
	for _, row := range results.Rows {
		require.NotNil(t, row.CorrectedPValue, row.Gene)
		require.NotNil(t, row.CorrectedSignificant, row.Gene)
		assert.InDelta(t, math.Min(1, 3*row.PValue), *row.CorrectedPValue, 1e-12)
		assert.Equal(t, *row.CorrectedPValue < 0.05, *row.CorrectedSignificant)
	}
}

func TestAnalyze_AliasIsNormalized(t *testing.T) {
	first, second := tables(t)
	seed := int64(1)

	results, err := newService(nil, nil).Analyze(context.Background(), first, second, AnalysisOptions{Method: "b", Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, "bonferroni", results.Method)
}

func TestAnalyze_UnsupportedMethod(t *testing.T) {
	first, second := tables(t)

	_, err := newService(nil, nil).Analyze(context.Background(), first, second, AnalysisOptions{Method: "tukey"})
	assert.ErrorIs(t, err, core.ErrUnsupportedMethod)
}

func TestAnalyze_MisalignedTables(t *testing.T) {
	first, _ := tables(t)
	other := mustTable(t, "other", []string{"A", "Z"}, []float64{1, 2, 3}, []float64{4, 5, 6})

	_, err := newService(nil, nil).Analyze(context.Background(), first, other, AnalysisOptions{})
	assert.ErrorIs(t, err, core.ErrColumnAlignment)
}

func TestAnalyze_SeededIsReproducible(t *testing.T) {
	first, second := tables(t)
	seed := int64(2024)
	svc := newService(nil, nil)

	r1, err := svc.Analyze(context.Background(), first, second, AnalysisOptions{Seed: &seed})
	require.NoError(t, err)
	r2, err := svc.Analyze(context.Background(), first, second, AnalysisOptions{Seed: &seed})
	require.NoError(t, err)

	for i := range r1.Rows {
		assert.Equal(t, r1.Rows[i].MeanDiff, r2.Rows[i].MeanDiff)
	}
	assert.NotEqual(t, r1.RunID, r2.RunID)
}

func TestRun_SavesWhenNamed(t *testing.T) {
	first, second := tables(t)
	source := &MockTableSource{}
	source.On("Load", mock.Anything, "first.csv").Return(first, nil)
	source.On("Load", mock.Anything, "second.csv").Return(second, nil)
	store := &MockResultStore{}
	store.On("Save", mock.Anything, "out", mock.AnythingOfType("*expression.ResultTable")).Return("results/out.csv", nil)

	resp, err := newService(source, store).Run(context.Background(), AnalysisRequest{
		FirstPath:  "first.csv",
		SecondPath: "second.csv",
		SaveAs:     "out",
		Options:    AnalysisOptions{Method: "fdr_bh"},
	})
	require.NoError(t, err)

	assert.Equal(t, "results/out.csv", resp.SavedTo)
	assert.True(t, resp.Results.HasCorrection())
	source.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRun_SkipsSaveWithoutName(t *testing.T) {
	first, second := tables(t)
	source := &MockTableSource{}
	source.On("Load", mock.Anything, "first.csv").Return(first, nil)
	source.On("Load", mock.Anything, "second.csv").Return(second, nil)
	store := &MockResultStore{}

	resp, err := newService(source, store).Run(context.Background(), AnalysisRequest{
		FirstPath:  "first.csv",
		SecondPath: "second.csv",
	})
	require.NoError(t, err)

	assert.Empty(t, resp.SavedTo)
	assert.Len(t, resp.Results.Rows, 3)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_PropagatesLoadAndSaveErrors(t *testing.T) {
	first, second := tables(t)

	source := &MockTableSource{}
	source.On("Load", mock.Anything, "missing.csv").Return(nil, core.NewFileAccessError("missing.csv", errors.New("not found")))
	_, err := newService(source, nil).Run(context.Background(), AnalysisRequest{FirstPath: "missing.csv", SecondPath: "second.csv"})
	assert.ErrorIs(t, err, core.ErrFileAccess)

	source = &MockTableSource{}
	source.On("Load", mock.Anything, "first.csv").Return(first, nil)
	source.On("Load", mock.Anything, "second.csv").Return(second, nil)
	store := &MockResultStore{}
	store.On("Save", mock.Anything, "out", mock.Anything).Return("", errors.New("disk full"))

	_, err = newService(source, store).Run(context.Background(), AnalysisRequest{FirstPath: "first.csv", SecondPath: "second.csv", SaveAs: "out"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRun_NoStoreConfigured(t *testing.T) {
	first, second := tables(t)
	source := &MockTableSource{}
	source.On("Load", mock.Anything, mock.Anything).Return(first, nil).Once()
	source.On("Load", mock.Anything, mock.Anything).Return(second, nil).Once()

	_, err := newService(source, nil).Run(context.Background(), AnalysisRequest{FirstPath: "a", SecondPath: "b", SaveAs: "out"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
