package handler

import (
	"net/http"
	"path/filepath"
	"strconv"

	"tillpos/internal/apierror"
	"tillpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReceiptsHandler struct {
	svc         service.ReceiptService
	storagePath string
}

func NewReceiptsHandler(svc service.ReceiptService, storagePath string) *ReceiptsHandler {
	return &ReceiptsHandler{svc: svc, storagePath: storagePath}
}

// Get godoc
// @Summary      Get one receipt
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Receipt id"
// @Success      200 {object} dto.ReceiptResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/receipts/{id} [get]
func (h *ReceiptsHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List receipts
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page (default 1)"
// @Param        limit query int false "Rows per page (default 50)"
// @Success      200 {object} map[string]interface{}
// @Router       /v1/receipts [get]
func (h *ReceiptsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, total, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list receipts"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total, "page": page, "limit": limit})
}

// DownloadPDF godoc
// @Summary      Download a receipt PDF
// @Tags         receipts
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path int true "Receipt id"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /v1/receipts/{id}/pdf [get]
func (h *ReceiptsHandler) DownloadPDF(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	// Stored paths are relative to the receipt storage root.
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.storagePath, filepath.Base(path))
	}
	c.FileAttachment(path, filepath.Base(path))
}

// Regenerate godoc
// @Summary      Re-enqueue a receipt render
// @Tags         receipts
// @Security     BearerAuth
// @Param        sale_id path int true "Sale id"
// @Success      202
// @Failure      400 {object} apierror.APIError
// @Router       /v1/receipts/sale/{sale_id}/regenerate [post]
func (h *ReceiptsHandler) Regenerate(c *gin.Context) {
	saleID, err := strconv.ParseUint(c.Param("sale_id"), 10, 64)
	if err != nil || saleID == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid sale_id"))
		return
	}
	if err := h.svc.Regenerate(c.Request.Context(), uint(saleID)); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusAccepted)
}
