package app

import (
	"context"
	"fmt"
	"time"

	"godge/adapters/stats/dge"
	"godge/domain/core"
	"godge/domain/expression"
	"godge/internal"
	"godge/ports"
)

// AnalysisService runs the differential expression pipeline and assembles the result table
type AnalysisService struct {
	ciRunner  *dge.CITestRunner
	zRunner   *dge.ZTestRunner
	resampler *dge.ResampledMeanEstimator
	source    ports.TableSource
	store     ports.ResultStore
	logger    *internal.Logger
}

// AnalysisOptions controls one analysis
type AnalysisOptions struct {
	Method string               // correction method; empty means no correction
	Seed   *int64               // resampling seed; nil draws one from the clock
	Align  expression.AlignMode // gene alignment; empty means strict
}

// AnalysisRequest describes a file-based run
type AnalysisRequest struct {
	FirstPath  string
	SecondPath string
	SaveAs     string // result name; empty skips persistence
	Options    AnalysisOptions
}

// AnalysisResponse contains the output of a file-based run
type AnalysisResponse struct {
	Results   *expression.ResultTable `json:"results"`
	SavedTo   string                  `json:"saved_to,omitempty"`
	RuntimeMs int64                   `json:"runtime_ms"`
}

// NewAnalysisService creates an analysis service. store may be nil when
// results are never persisted.
func NewAnalysisService(
	ciRunner *dge.CITestRunner,
	zRunner *dge.ZTestRunner,
	resampler *dge.ResampledMeanEstimator,
	source ports.TableSource,
	store ports.ResultStore,
	logger *internal.Logger,
) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		ciRunner:  ciRunner,
		zRunner:   zRunner,
		resampler: resampler,
		source:    source,
		store:     store,
		logger:    logger.With("analysis"),
	}
}

// Analyze compares two loaded tables gene by gene.
// Corrected columns are filled only when opts.Method is set.
func (s *AnalysisService) Analyze(ctx context.Context, first, second *expression.Table, opts AnalysisOptions) (*expression.ResultTable, error) {
	var method dge.Method
	if opts.Method != "" {
		m, err := dge.ParseMethod(opts.Method)
		if err != nil {
			return nil, err
		}
		method = m
	}

	pair, err := expression.Align(first, second, opts.Align)
	if err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	results := expression.NewResultTable(first.Name, second.Name, string(method), seed)
	s.logger.Info("run %s: %d genes, %s (%d samples) vs %s (%d samples)",
		results.RunID, len(pair.Genes), first.Name, first.SampleCount(), second.Name, second.SampleCount())

	overlaps, err := s.ciRunner.Run(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("confidence interval test failed: %w", err)
	}

	pvalues, err := s.zRunner.PValues(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("z-test failed: %w", err)
	}
	significant := dge.SignificanceCalls(pvalues)

	var corrected []float64
	var correctedSignificant []bool
	if method != "" {
		corrected, err = dge.Correct(pvalues, string(method))
		if err != nil {
			return nil, err
		}
		correctedSignificant = dge.SignificanceCalls(corrected)
	}

	meanDiffs, err := s.resampler.MeanDifferences(ctx, pair, seed)
	if err != nil {
		return nil, fmt.Errorf("resampled mean estimation failed: %w", err)
	}

	results.Rows = make([]expression.GeneResult, len(pair.Genes))
	for i, gene := range pair.Genes {
		row := expression.GeneResult{
			Gene:         gene,
			CIOverlap:    overlaps[i],
			ZSignificant: significant[i],
			PValue:       pvalues[i],
			MeanDiff:     meanDiffs[i],
		}
		if method != "" {
			sig := correctedSignificant[i]
			p := corrected[i]
			row.CorrectedSignificant = &sig
			row.CorrectedPValue = &p
		}
		results.Rows[i] = row
	}

	s.logger.Debug("run %s: %d z-significant genes (%s variance)", results.RunID, countTrue(significant), s.zRunner.Variance())
	return results, nil
}

// Run loads both tables, analyses them and persists the result when SaveAs is set.
// The result table is always returned, whether or not a correction method was given.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	start := time.Now()

	if s.source == nil {
		return nil, core.NewInvalidInputError("table source", "not configured")
	}
	first, err := s.source.Load(ctx, req.FirstPath)
	if err != nil {
		return nil, err
	}
	second, err := s.source.Load(ctx, req.SecondPath)
	if err != nil {
		return nil, err
	}

	resp, err := s.Compare(ctx, first, second, req.SaveAs, req.Options)
	if err != nil {
		return nil, err
	}
	resp.RuntimeMs = time.Since(start).Milliseconds()
	return resp, nil
}

// Compare analyses two already loaded tables and saves the result under saveAs when it is not empty
func (s *AnalysisService) Compare(ctx context.Context, first, second *expression.Table, saveAs string, opts AnalysisOptions) (*AnalysisResponse, error) {
	start := time.Now()

	results, err := s.Analyze(ctx, first, second, opts)
	if err != nil {
		return nil, err
	}

	resp := &AnalysisResponse{Results: results}
	if saveAs != "" {
		if s.store == nil {
			return nil, core.NewInvalidInputError("result store", "not configured")
		}
		location, err := s.store.Save(ctx, saveAs, results)
		if err != nil {
			return nil, fmt.Errorf("failed to save results: %w", err)
		}
		resp.SavedTo = location
		s.logger.Info("run %s: results saved to %s", results.RunID, location)
	}

	resp.RuntimeMs = time.Since(start).Milliseconds()
	return resp, nil
}

func countTrue(values []bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
