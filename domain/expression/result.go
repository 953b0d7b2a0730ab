package expression

import (
	"time"

	"github.com/google/uuid"
)

// Result column names, in output order
const (
	ColumnGene            = "gene"
	ColumnCITestResults   = "ci_test_results"
	ColumnZTestResults    = "z_test_results"
	ColumnZTestPValues    = "z_test_p_values"
	ColumnMeanDiff        = "mean_diff"
	ColumnZTestCorResults = "z_test_cor_res"
	ColumnZTestCorPValues = "z_test_cor_p_values"
)

// GeneResult is one output row
type GeneResult struct {
	Gene                 string   `json:"gene" db:"gene"`
	CIOverlap            bool     `json:"ci_test_results" db:"ci_test_results"`
	ZSignificant         bool     `json:"z_test_results" db:"z_test_results"`
	PValue               float64  `json:"z_test_p_values" db:"z_test_p_values"`
	MeanDiff             float64  `json:"mean_diff" db:"mean_diff"`
	CorrectedSignificant *bool    `json:"z_test_cor_res,omitempty" db:"z_test_cor_res"`
	CorrectedPValue      *float64 `json:"z_test_cor_p_values,omitempty" db:"z_test_cor_p_values"`
}

// ResultTable is the assembled output of one analysis run
type ResultTable struct {
	RunID       uuid.UUID    `json:"run_id"`
	CreatedAt   time.Time    `json:"created_at"`
	FirstTable  string       `json:"first_table"`
	SecondTable string       `json:"second_table"`
	Method      string       `json:"method,omitempty"`
	Seed        int64        `json:"seed"`
	Rows        []GeneResult `json:"rows"`
}

// NewResultTable allocates an empty table with a fresh run ID
func NewResultTable(firstName, secondName, method string, seed int64) *ResultTable {
	return &ResultTable{
		RunID:       uuid.New(),
		CreatedAt:   time.Now().UTC(),
		FirstTable:  firstName,
		SecondTable: secondName,
		Method:      method,
		Seed:        seed,
	}
}

// HasCorrection reports whether corrected columns are present
func (r *ResultTable) HasCorrection() bool {
	return r.Method != ""
}

// Columns returns the header of the table in output order
func (r *ResultTable) Columns() []string {
	cols := []string{
		ColumnGene,
		ColumnCITestResults,
		ColumnZTestResults,
		ColumnZTestPValues,
		ColumnMeanDiff,
	}
	if r.HasCorrection() {
		cols = append(cols, ColumnZTestCorResults, ColumnZTestCorPValues)
	}
	return cols
}

// Genes returns the gene names in row order
func (r *ResultTable) Genes() []string {
	genes := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		genes[i] = row.Gene
	}
	return genes
}

// Row looks up the result for a gene
func (r *ResultTable) Row(gene string) (GeneResult, bool) {
	for _, row := range r.Rows {
		if row.Gene == gene {
			return row, true
		}
	}
	return GeneResult{}, false
}
