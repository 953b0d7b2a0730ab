package api

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"godge/adapters/csvtable"
	"godge/adapters/stats/dge"
	"godge/app"
	"godge/domain/core"
	"godge/domain/expression"
	"godge/internal"
	"godge/internal/errors"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler serves differential expression runs over HTTP
type AnalysisHandler struct {
	analysis *app.AnalysisService
	defaults app.AnalysisOptions
	logger   *internal.Logger
}

// NewAnalysisHandler creates a new analysis handler.
// defaults supplies the seed and alignment used when a request omits them.
func NewAnalysisHandler(analysis *app.AnalysisService, defaults app.AnalysisOptions, logger *internal.Logger) *AnalysisHandler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisHandler{
		analysis: analysis,
		defaults: defaults,
		logger:   logger.With("api"),
	}
}

// geneRow is the JSON shape of one result row
type geneRow struct {
	Gene                 string   `json:"gene"`
	CIOverlap            bool     `json:"ci_test_results"`
	ZSignificant         bool     `json:"z_test_results"`
	PValue               float64  `json:"z_test_p_values"`
	CorrectedSignificant *bool    `json:"z_test_cor_res,omitempty"`
	CorrectedPValue      *float64 `json:"z_test_cor_p_values,omitempty"`
	MeanDiff             float64  `json:"mean_diff"`
}

// analysisResponse is the JSON body returned by CreateAnalysis
type analysisResponse struct {
	RunID       string    `json:"run_id"`
	FirstTable  string    `json:"first_table"`
	SecondTable string    `json:"second_table"`
	Method      string    `json:"method,omitempty"`
	Seed        int64     `json:"seed"`
	Columns     []string  `json:"columns"`
	Rows        []geneRow `json:"rows"`
	SavedTo     string    `json:"saved_to,omitempty"`
	RuntimeMs   int64     `json:"runtime_ms"`
}

// Health reports liveness
func (h *AnalysisHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListMethods returns the supported correction methods
func (h *AnalysisHandler) ListMethods(c *gin.Context) {
	methods := dge.SupportedMethods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	c.JSON(http.StatusOK, gin.H{"methods": names})
}

// CreateAnalysis compares the two uploaded tables
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	opts := h.defaults
	opts.Method = strings.TrimSpace(c.PostForm("method"))

	if raw := strings.TrimSpace(c.PostForm("seed")); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.fail(c, core.NewInvalidInputError("seed", "must be an integer"))
			return
		}
		opts.Seed = &seed
	}
	if raw := strings.TrimSpace(c.PostForm("align")); raw != "" {
		align, err := expression.ParseAlignMode(raw)
		if err != nil {
			h.fail(c, err)
			return
		}
		opts.Align = align
	}

	first, err := tableFromForm(c, "first")
	if err != nil {
		h.fail(c, err)
		return
	}
	second, err := tableFromForm(c, "second")
	if err != nil {
		h.fail(c, err)
		return
	}

	resp, err := h.analysis.Compare(c.Request.Context(), first, second, strings.TrimSpace(c.PostForm("save_as")), opts)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

func tableFromForm(c *gin.Context, field string) (*expression.Table, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, core.NewInvalidInputError(field, "multipart file is required")
	}
	return parseUpload(header)
}

func parseUpload(header *multipart.FileHeader) (*expression.Table, error) {
	file, err := header.Open()
	if err != nil {
		return nil, core.NewFileAccessError(header.Filename, err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	return csvtable.Parse(name, file)
}

func (h *AnalysisHandler) fail(c *gin.Context, err error) {
	code := errors.CodeFor(err)
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("analysis request failed: %v", err)
	} else {
		h.logger.Debug("analysis request rejected (%s): %v", code, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// StatusFor maps an error code to an HTTP status
func StatusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput, errors.CodeUnsupportedMethod, errors.CodeFileAccess:
		return http.StatusBadRequest
	case errors.CodeInsufficientSample, errors.CodeColumnAlignment:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func toResponse(resp *app.AnalysisResponse) analysisResponse {
	results := resp.Results
	rows := make([]geneRow, len(results.Rows))
	for i, r := range results.Rows {
		rows[i] = geneRow{
			Gene:                 r.Gene,
			CIOverlap:            r.CIOverlap,
			ZSignificant:         r.ZSignificant,
			PValue:               r.PValue,
			CorrectedSignificant: r.CorrectedSignificant,
			CorrectedPValue:      r.CorrectedPValue,
			MeanDiff:             r.MeanDiff,
		}
	}
	return analysisResponse{
		RunID:       results.RunID.String(),
		FirstTable:  results.FirstTable,
		SecondTable: results.SecondTable,
		Method:      results.Method,
		Seed:        results.Seed,
		Columns:     results.Columns(),
		Rows:        rows,
		SavedTo:     resp.SavedTo,
		RuntimeMs:   resp.RuntimeMs,
	}
}
