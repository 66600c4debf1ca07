package handler

import (
	"net/http"
	"strconv"

	"tillpos/internal/apierror"
	"tillpos/internal/dto"
	"tillpos/internal/middleware"
	"tillpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{ svc service.ClosureService }

func NewReportHandler(svc service.ClosureService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GetExpected godoc
// @Summary      Expected totals for a day
// @Description  Aggregates the day's sales by payment method at the caller's location.
// @Tags         report
// @Produce      json
// @Security     BearerAuth
// @Param        day query string false "Day YYYY-MM-DD (default: today)"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} apierror.APIError
// @Router       /v1/report/close [get]
func (h *ReportHandler) GetExpected(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		day = todayString()
	}
	resp, err := h.svc.GetExpected(c.Request.Context(), day, effectiveLocation(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": resp})
}

// CloseDay godoc
// @Summary      Close the day
// @Description  Reconciles counted cash/card against the day's expected totals, persists the closure audit row, and emails the report.
// @Tags         report
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CloseDayRequest true "Counted amounts"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} apierror.APIError
// @Router       /v1/report/close [post]
func (h *ReportHandler) CloseDay(c *gin.Context) {
	var req dto.CloseDayRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	result, sent, err := h.svc.CloseDay(c.Request.Context(), claims.UserID, effectiveLocation(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"data":  result,
		"email": gin.H{"sent": sent},
	})
}

// ListClosures godoc
// @Summary      List closure audit rows
// @Tags         report
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page (default 1)"
// @Param        limit query int false "Rows per page (default 50)"
// @Success      200 {object} map[string]interface{}
// @Router       /v1/report/closures [get]
func (h *ReportHandler) ListClosures(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, total, err := h.svc.ListClosures(c.Request.Context(), effectiveLocation(c), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list closures"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "page": page, "limit": limit})
}
