package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/veldspar/intelboard/internal/services"
	"github.com/veldspar/intelboard/pkg/pool"
)

type Handler struct {
	killmailSrv *services.KillmailService
	analyzer    *services.Analyzer
	statsSrv    *services.StatsService
	pool        *pool.Pool
}

func New(killmailSrv *services.KillmailService, analyzer *services.Analyzer, statsSrv *services.StatsService, p *pool.Pool) *Handler {
	return &Handler{
		killmailSrv: killmailSrv,
		analyzer:    analyzer,
		statsSrv:    statsSrv,
		pool:        p,
	}
}

// Register wires the handler's routes onto the API router group.
func (h *Handler) Register(router *gin.RouterGroup) {
	router.GET("/health", h.GetHealth)

	router.GET("/killmails", h.GetKillmails)
	router.GET("/killmails/:id", h.GetKillmail)

	router.POST("/analysis", h.PostAnalysis)
	router.POST("/analysis/refresh", h.PostAnalysisRefresh)
	router.GET("/analysis/:kind/:subjectId", h.GetReport)

	router.GET("/stats", h.GetDashboardStats)
	router.GET("/pool/stats", h.GetPoolStats)
	router.PUT("/pool/size", h.PutPoolSize)
	router.DELETE("/pool/queue", h.DeleteQueue)
}
