package dge

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"godge/domain/core"
)

// Method is a canonical multiple-comparison correction name
type Method string

const (
	MethodBonferroni    Method = "bonferroni"
	MethodSidak         Method = "sidak"
	MethodHolmSidak     Method = "holm-sidak"
	MethodHolm          Method = "holm"
	MethodSimesHochberg Method = "simes-hochberg"
	MethodHommel        Method = "hommel"
	MethodFDRBH         Method = "fdr_bh"
	MethodFDRBY         Method = "fdr_by"
)

// methodAliases maps every accepted spelling to its canonical method
var methodAliases = map[string]Method{
	"bonferroni":     MethodBonferroni,
	"b":              MethodBonferroni,
	"sidak":          MethodSidak,
	"s":              MethodSidak,
	"holm-sidak":     MethodHolmSidak,
	"hs":             MethodHolmSidak,
	"holm":           MethodHolm,
	"h":              MethodHolm,
	"simes-hochberg": MethodSimesHochberg,
	"sh":             MethodSimesHochberg,
	"hommel":         MethodHommel,
	"ho":             MethodHommel,
	"fdr_bh":         MethodFDRBH,
	"fdr_i":          MethodFDRBH,
	"fdr_p":          MethodFDRBH,
	"fdri":           MethodFDRBH,
	"fdrp":           MethodFDRBH,
	"bh":             MethodFDRBH,
	"fdr_by":         MethodFDRBY,
	"fdr_n":          MethodFDRBY,
	"fdr_c":          MethodFDRBY,
	"fdrn":           MethodFDRBY,
	"fdrcorr":        MethodFDRBY,
	"by":             MethodFDRBY,
}

// SupportedMethods lists the canonical method names
func SupportedMethods() []Method {
	return []Method{
		MethodBonferroni,
		MethodSidak,
		MethodHolmSidak,
		MethodHolm,
		MethodSimesHochberg,
		MethodHommel,
		MethodFDRBH,
		MethodFDRBY,
	}
}

// Aliases returns the alternative spellings accepted for m, sorted and comma separated
func Aliases(m Method) string {
	var names []string
	for alias, target := range methodAliases {
		if target == m && alias != string(m) {
			names = append(names, alias)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// ParseMethod resolves a method name or alias, case-insensitively
func ParseMethod(name string) (Method, error) {
	m, ok := methodAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", core.NewUnsupportedMethodError(name)
	}
	return m, nil
}

// Correct adjusts pvalues for multiple comparisons.
// The result has the same length and order as the input; values are capped at 1.
func Correct(pvalues []float64, method string) ([]float64, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}
	for i, p := range pvalues {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, core.NewInvalidInputError("p-values", fmt.Sprintf("value %d is %v, want [0, 1]", i, p))
		}
	}
	n := len(pvalues)
	if n == 0 {
		return []float64{}, nil
	}

	// work on ascending p-values, then scatter back to input order
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return pvalues[order[a]] < pvalues[order[b]] })
	sorted := make([]float64, n)
	for i, idx := range order {
		sorted[i] = pvalues[idx]
	}

	var adjusted []float64
	switch m {
	case MethodBonferroni:
		adjusted = bonferroni(sorted)
	case MethodSidak:
		adjusted = sidak(sorted)
	case MethodHolmSidak:
		adjusted = holmSidak(sorted)
	case MethodHolm:
		adjusted = holm(sorted)
	case MethodSimesHochberg:
		adjusted = simesHochberg(sorted)
	case MethodHommel:
		adjusted = hommel(sorted)
	case MethodFDRBH:
		adjusted = fdr(sorted, false)
	case MethodFDRBY:
		adjusted = fdr(sorted, true)
	}

	out := make([]float64, n)
	for i, idx := range order {
		out[idx] = math.Min(adjusted[i], 1)
	}
	return out, nil
}

func bonferroni(p []float64) []float64 {
	n := float64(len(p))
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v * n
	}
	return out
}

func sidak(p []float64) []float64 {
	n := float64(len(p))
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = -math.Expm1(n * math.Log1p(-v))
	}
	return out
}

// holmSidak and holm are step-down: running maximum over ascending p
func holmSidak(p []float64) []float64 {
	n := len(p)
	out := make([]float64, n)
	for i, v := range p {
		out[i] = -math.Expm1(float64(n-i) * math.Log1p(-v))
	}
	return cumulativeMax(out)
}

func holm(p []float64) []float64 {
	n := len(p)
	out := make([]float64, n)
	for i, v := range p {
		out[i] = v * float64(n-i)
	}
	return cumulativeMax(out)
}

// simesHochberg is step-up: running minimum from the largest p down
func simesHochberg(p []float64) []float64 {
	n := len(p)
	out := make([]float64, n)
	for i, v := range p {
		out[i] = v * float64(n-i)
	}
	return reverseCumulativeMin(out)
}

func hommel(p []float64) []float64 {
	n := len(p)
	a := make([]float64, n)
	copy(a, p)
	for m := n; m >= 2; m-- {
		cim := math.Inf(1)
		for k := 0; k < m; k++ {
			cim = math.Min(cim, float64(m)*p[n-m+k]/float64(k+1))
		}
		for i := n - m; i < n; i++ {
			a[i] = math.Max(a[i], cim)
		}
		for i := 0; i < n-m; i++ {
			a[i] = math.Max(a[i], math.Min(float64(m)*p[i], cim))
		}
	}
	return a
}

// fdr is Benjamini-Hochberg, or Benjamini-Yekutieli when dependent is set
func fdr(p []float64, dependent bool) []float64 {
	n := len(p)
	scale := 1.0
	if dependent {
		scale = 0
		for k := 1; k <= n; k++ {
			scale += 1 / float64(k)
		}
	}
	out := make([]float64, n)
	for i, v := range p {
		out[i] = v * float64(n) / float64(i+1) * scale
	}
	return reverseCumulativeMin(out)
}

func cumulativeMax(v []float64) []float64 {
	for i := 1; i < len(v); i++ {
		if v[i-1] > v[i] {
			v[i] = v[i-1]
		}
	}
	return v
}

func reverseCumulativeMin(v []float64) []float64 {
	for i := len(v) - 2; i >= 0; i-- {
		if v[i+1] < v[i] {
			v[i] = v[i+1]
		}
	}
	return v
}
