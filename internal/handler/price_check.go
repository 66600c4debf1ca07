package handler

import (
	"net/http"

	"tillpos/internal/apierror"
	"tillpos/internal/service"

	"github.com/gin-gonic/gin"
)

// PriceCheckHandler serves the public price lookup used by in-store
// price-check kiosks. No auth — it exposes name, price, and quantity only.
type PriceCheckHandler struct{ svc service.ProductService }

func NewPriceCheckHandler(svc service.ProductService) *PriceCheckHandler {
	return &PriceCheckHandler{svc: svc}
}

// GetPriceByUPC godoc
// @Summary      Price lookup by UPC
// @Tags         price
// @Produce      json
// @Param        upc path string true "Product UPC"
// @Success      200 {object} dto.PriceCheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/price/{upc} [get]
func (h *PriceCheckHandler) GetPriceByUPC(c *gin.Context) {
	upc := c.Param("upc")
	if upc == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Missing UPC"))
		return
	}
	resp, err := h.svc.PriceCheck(c.Request.Context(), upc)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
