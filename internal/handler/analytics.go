package handler

import (
	"net/http"

	"tillpos/internal/apierror"
	"tillpos/internal/dto"
	"tillpos/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct{ svc service.AnalyticsService }

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Summary godoc
// @Summary      Revenue summary
// @Description  Daily revenue series plus totals and average ticket, default range last 7 days.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From YYYY-MM-DD"
// @Param        to   query string false "To YYYY-MM-DD"
// @Success      200  {object} dto.SummaryResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), filter, effectiveLocation(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopProducts godoc
// @Summary      Best sellers
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from  query string false "From YYYY-MM-DD"
// @Param        to    query string false "To YYYY-MM-DD"
// @Param        limit query int    false "Max rows (default 10)"
// @Success      200   {array} dto.TopProduct
// @Failure      400   {object} apierror.APIError
// @Router       /v1/analytics/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.TopProducts(c.Request.Context(), filter, effectiveLocation(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
