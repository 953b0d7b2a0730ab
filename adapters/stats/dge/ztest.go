package dge

import (
	"context"
	"fmt"
	"math"
	"strings"

	"godge/domain/core"
	"godge/domain/expression"
	"godge/internal"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// SignificanceAlpha is the fixed threshold: p < SignificanceAlpha is significant
const SignificanceAlpha = 0.05

// VarianceMode selects how the standard error of the mean difference is formed
type VarianceMode string

const (
	// VariancePooled assumes equal variances and pools the sums of squares
	VariancePooled VarianceMode = "pooled"
	// VarianceUnequal uses each sample's own variance
	VarianceUnequal VarianceMode = "unequal"
)

// ParseVarianceMode converts a user-supplied name into a VarianceMode
func ParseVarianceMode(s string) (VarianceMode, error) {
	switch VarianceMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariancePooled:
		return VariancePooled, nil
	case VarianceUnequal:
		return VarianceUnequal, nil
	default:
		return "", core.NewInvalidInputError("variance mode", fmt.Sprintf("unknown mode %q", s))
	}
}

// OutputMode selects what ZTestRunner.Run reports
type OutputMode int

const (
	OutputSignificance OutputMode = iota
	OutputRawPValues
	OutputCorrectedSignificance
	OutputCorrectedPValues
)

func (m OutputMode) String() string {
	switch m {
	case OutputSignificance:
		return "significance"
	case OutputRawPValues:
		return "raw_pvalues"
	case OutputCorrectedSignificance:
		return "corrected_significance"
	case OutputCorrectedPValues:
		return "corrected_pvalues"
	default:
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
}

// Corrected reports whether the mode needs a correction method
func (m OutputMode) Corrected() bool {
	return m == OutputCorrectedSignificance || m == OutputCorrectedPValues
}

// ZTestResult is the outcome of one two-sample z-test
type ZTestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
}

// ZTestOutput carries exactly one of Significant or PValues, as chosen by Mode
type ZTestOutput struct {
	Mode        OutputMode `json:"mode"`
	Method      Method     `json:"method,omitempty"`
	Significant []bool     `json:"significant,omitempty"`
	PValues     []float64  `json:"p_values,omitempty"`
}

// TwoSampleZTest runs a two-sided z-test for equal means of x1 and x2.
// The statistic is referred to the standard normal distribution.
func TwoSampleZTest(x1, x2 []float64, mode VarianceMode) (ZTestResult, error) {
	if err := checkFinite(x1); err != nil {
		return ZTestResult{}, err
	}
	if err := checkFinite(x2); err != nil {
		return ZTestResult{}, err
	}
	n1, n2 := len(x1), len(x2)
	if n1 < 2 {
		return ZTestResult{}, core.NewInsufficientSampleError(n1, 2)
	}
	if n2 < 2 {
		return ZTestResult{}, core.NewInsufficientSampleError(n2, 2)
	}

	mean1, _ := stats.Mean(x1)
	mean2, _ := stats.Mean(x2)
	var1, _ := stats.SampleVariance(x1)
	var2, _ := stats.SampleVariance(x2)
	f1, f2 := float64(n1), float64(n2)

	var variance float64
	switch mode {
	case VariancePooled, "":
		pooled := ((f1-1)*var1 + (f2-1)*var2) / (f1 + f2 - 2)
		variance = pooled * (1/f1 + 1/f2)
	case VarianceUnequal:
		variance = var1/f1 + var2/f2
	default:
		return ZTestResult{}, core.NewInvalidInputError("variance mode", fmt.Sprintf("unknown mode %q", mode))
	}

	diff := mean1 - mean2
	se := math.Sqrt(variance)
	if se == 0 {
		// both samples constant
		if diff == 0 {
			return ZTestResult{Statistic: 0, PValue: 1}, nil
		}
		return ZTestResult{Statistic: math.Copysign(math.Inf(1), diff), PValue: 0}, nil
	}

	z := diff / se
	p := 2 * distuv.UnitNormal.CDF(-math.Abs(z))
	return ZTestResult{Statistic: z, PValue: math.Min(p, 1)}, nil
}

// IsSignificant applies the fixed threshold
func IsSignificant(p float64) bool {
	return p < SignificanceAlpha
}

// SignificanceCalls maps p-values to significance flags
func SignificanceCalls(pvalues []float64) []bool {
	calls := make([]bool, len(pvalues))
	for i, p := range pvalues {
		calls[i] = IsSignificant(p)
	}
	return calls
}

// ZTestRunner runs the z-test for every gene of an aligned pair
type ZTestRunner struct {
	variance VarianceMode
	logger   *internal.Logger
}

// NewZTestRunner creates a z-test runner using the given variance mode
func NewZTestRunner(variance VarianceMode, logger *internal.Logger) *ZTestRunner {
	if variance == "" {
		variance = VariancePooled
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ZTestRunner{variance: variance, logger: logger.With("ztest")}
}

// Variance returns the variance mode used by the runner
func (r *ZTestRunner) Variance() VarianceMode {
	return r.variance
}

// PValues returns the raw p-value of every gene in pair order
func (r *ZTestRunner) PValues(ctx context.Context, pair *expression.AlignedPair) ([]float64, error) {
	pvalues := make([]float64, 0, len(pair.Genes))
	for _, gene := range pair.Genes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		first, second, err := pair.Columns(gene)
		if err != nil {
			return nil, err
		}
		res, err := TwoSampleZTest(first, second, r.variance)
		if err != nil {
			return nil, fmt.Errorf("gene %s: %w", gene, err)
		}
		r.logger.Trace("%s z=%g p=%g", gene, res.Statistic, res.PValue)
		pvalues = append(pvalues, res.PValue)
	}
	return pvalues, nil
}

// Run computes the output selected by mode. Corrected modes require a method.
func (r *ZTestRunner) Run(ctx context.Context, pair *expression.AlignedPair, mode OutputMode, method string) (*ZTestOutput, error) {
	out := &ZTestOutput{Mode: mode}

	if mode.Corrected() {
		m, err := ParseMethod(method)
		if err != nil {
			return nil, err
		}
		out.Method = m
	} else if mode != OutputSignificance && mode != OutputRawPValues {
		return nil, core.NewInvalidInputError("output mode", mode.String())
	}

	pvalues, err := r.PValues(ctx, pair)
	if err != nil {
		return nil, err
	}
	if mode.Corrected() {
		pvalues, err = Correct(pvalues, string(out.Method))
		if err != nil {
			return nil, err
		}
	}

	switch mode {
	case OutputSignificance, OutputCorrectedSignificance:
		out.Significant = SignificanceCalls(pvalues)
	case OutputRawPValues, OutputCorrectedPValues:
		out.PValues = pvalues
	}
	r.logger.Debug("ran %d z-tests (mode=%s)", len(pvalues), mode)
	return out, nil
}
