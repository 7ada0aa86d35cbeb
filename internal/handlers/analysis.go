package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/veldspar/intelboard/api/v1"
	"github.com/veldspar/intelboard/internal/models"
	"github.com/veldspar/intelboard/internal/util"
	srvErrors "github.com/veldspar/intelboard/pkg/errors"
	"github.com/veldspar/intelboard/pkg/pool"
)

var analysisKinds = []string{
	models.AnalysisCharacterThreat,
	models.AnalysisCorporationActivity,
}

// PostAnalysis runs a synchronous analysis and returns the report
// (POST /analysis)
func (h *Handler) PostAnalysis(c *gin.Context) {
	var req v1.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subjectId is required"})
		return
	}
	kind := req.Kind
	if kind == "" {
		kind = models.AnalysisCharacterThreat
	}
	if !util.Contains(analysisKinds, kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown analysis kind"})
		return
	}

	priority := v1.ParsePriority(req.Priority)

	var report *models.AnalysisReport
	var err error
	switch kind {
	case models.AnalysisCorporationActivity:
		report, err = h.analyzer.AnalyzeCorporation(c.Request.Context(), req.SubjectId, priority)
	default:
		report, err = h.analyzer.AnalyzeCharacter(c.Request.Context(), req.SubjectId, priority)
	}
	if err != nil {
		h.analysisError(c, req.SubjectId, err)
		return
	}

	c.JSON(http.StatusOK, v1.NewReportFromModel(report))
}

// PostAnalysisRefresh queues a background re-analysis
// (POST /analysis/refresh)
func (h *Handler) PostAnalysisRefresh(c *gin.Context) {
	var req v1.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subjectId is required"})
		return
	}
	if req.Kind != "" && req.Kind != models.AnalysisCharacterThreat {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only character_threat refresh is supported"})
		return
	}

	if err := h.analyzer.RefreshCharacter(req.SubjectId); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis engine is shut down"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// GetReport returns the last persisted report for a subject
// (GET /analysis/{kind}/{subjectId})
func (h *Handler) GetReport(c *gin.Context) {
	kind := c.Param("kind")
	if !util.Contains(analysisKinds, kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown analysis kind"})
		return
	}
	subjectID, err := strconv.ParseInt(c.Param("subjectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	report, err := h.analyzer.Report(c.Request.Context(), subjectID, kind)
	if err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		zap.S().Named("analysis_handler").Errorw("failed to get report",
			"subject", subjectID, "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get report"})
		return
	}

	c.JSON(http.StatusOK, v1.NewReportFromModel(report))
}

func (h *Handler) analysisError(c *gin.Context, subjectID int64, err error) {
	var deadlineErr *pool.DeadlineError
	switch {
	case srvErrors.IsNoActivityError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, pool.ErrQueueFull):
		c.Header("Retry-After", "5")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis queue is full"})
	case errors.As(err, &deadlineErr):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "analysis timed out"})
	case errors.Is(err, pool.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis engine is shut down"})
	default:
		zap.S().Named("analysis_handler").Errorw("analysis failed", "subject", subjectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
	}
}
