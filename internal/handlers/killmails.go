package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/veldspar/intelboard/api/v1"
	"github.com/veldspar/intelboard/internal/services"
	srvErrors "github.com/veldspar/intelboard/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetKillmails returns the list of killmails with filtering and pagination
// (GET /killmails)
func (h *Handler) GetKillmails(c *gin.Context) {
	// Parse pagination
	page := 1
	if v, err := intQuery(c, "page"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	} else if v > 0 {
		page = v
	}
	pageSize := defaultPageSize
	if v, err := intQuery(c, "pageSize"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pageSize"})
		return
	} else if v > 0 {
		pageSize = min(v, maxPageSize)
	}

	// Build service params
	params := services.KillmailListParams{
		Limit:  uint64(pageSize),
		Offset: uint64((page - 1) * pageSize),
	}

	var err error
	if params.Characters, err = int64ListQuery(c, "character"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character id"})
		return
	}
	if params.Corporations, err = int64ListQuery(c, "corporation"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid corporation id"})
		return
	}
	if params.SolarSystems, err = int64ListQuery(c, "system"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid system id"})
		return
	}
	if params.ShipTypes, err = int64ListQuery(c, "shipType"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shipType id"})
		return
	}
	if params.MinValue, err = floatQuery(c, "minValue"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minValue"})
		return
	}
	if params.MaxValue, err = floatQuery(c, "maxValue"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxValue"})
		return
	}
	if params.MaxValue > 0 && params.MinValue > params.MaxValue {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minValue exceeds maxValue"})
		return
	}
	if params.Since, err = timeQuery(c, "since"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since, expected RFC3339"})
		return
	}
	if params.Until, err = timeQuery(c, "until"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid until, expected RFC3339"})
		return
	}

	result, err := h.killmailSrv.List(c.Request.Context(), params)
	if err != nil {
		zap.S().Named("killmail_handler").Errorw("failed to list killmails", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list killmails"})
		return
	}

	// Calculate page count
	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	// Map to API response
	apiKms := make([]v1.Killmail, 0, len(result.Killmails))
	for _, km := range result.Killmails {
		apiKms = append(apiKms, v1.NewKillmailFromModel(km))
	}

	c.JSON(http.StatusOK, v1.KillmailListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Killmails: apiKms,
	})
}

// GetKillmail returns one killmail by id
// (GET /killmails/{id})
func (h *Handler) GetKillmail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid killmail id"})
		return
	}

	km, err := h.killmailSrv.Get(c.Request.Context(), id)
	if err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		zap.S().Named("killmail_handler").Errorw("failed to get killmail", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get killmail"})
		return
	}

	c.JSON(http.StatusOK, v1.NewKillmailFromModel(*km))
}

func intQuery(c *gin.Context, name string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func floatQuery(c *gin.Context, name string) (float64, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func timeQuery(c *gin.Context, name string) (time.Time, error) {
	s := c.Query(name)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func int64ListQuery(c *gin.Context, name string) ([]int64, error) {
	values := c.QueryArray(name)
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
