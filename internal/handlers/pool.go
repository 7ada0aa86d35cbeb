package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/veldspar/intelboard/api/v1"
	"github.com/veldspar/intelboard/pkg/pool"
)

// GetDashboardStats returns the combined dashboard snapshot
// (GET /stats)
func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statsSrv.Dashboard(c.Request.Context())
	if err != nil {
		zap.S().Named("stats_handler").Errorw("failed to build stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetPoolStats returns a snapshot of pool occupancy
// (GET /pool/stats)
func (h *Handler) GetPoolStats(c *gin.Context) {
	c.JSON(http.StatusOK, v1.NewPoolStats(h.pool.Stats()))
}

// PutPoolSize resizes the worker pool
// (PUT /pool/size)
func (h *Handler) PutPoolSize(c *gin.Context) {
	var req v1.ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size is required"})
		return
	}

	if err := h.pool.ScaleTo(req.Size); err != nil {
		if errors.Is(err, pool.ErrInvalidSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis engine is shut down"})
		return
	}

	c.JSON(http.StatusOK, v1.NewPoolStats(h.pool.Stats()))
}

// DeleteQueue discards all queued analysis jobs
// (DELETE /pool/queue)
func (h *Handler) DeleteQueue(c *gin.Context) {
	dropped, err := h.pool.ClearQueue()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis engine is shut down"})
		return
	}
	c.JSON(http.StatusOK, v1.ClearQueueResponse{Dropped: dropped})
}

// GetHealth reports liveness
// (GET /health)
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
