package handler

import (
	"net/http"

	"tillpos/internal/apierror"
	"tillpos/internal/dto"
	"tillpos/internal/middleware"
	"tillpos/internal/service"

	"github.com/gin-gonic/gin"
)

type AnnouncementsHandler struct{ svc service.AnnouncementService }

func NewAnnouncementsHandler(svc service.AnnouncementService) *AnnouncementsHandler {
	return &AnnouncementsHandler{svc: svc}
}

// Create godoc
// @Summary      Post an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateAnnouncementRequest true "Announcement"
// @Success      201  {object} dto.AnnouncementResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/announcements [post]
func (h *AnnouncementsHandler) Create(c *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List announcements visible at the caller's location
// @Tags         announcements
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AnnouncementResponse
// @Router       /v1/announcements [get]
func (h *AnnouncementsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListVisible(c.Request.Context(), effectiveLocation(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list announcements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int true "Announcement id"
// @Param        body body dto.UpdateAnnouncementRequest true "Fields to change"
// @Success      200  {object} dto.AnnouncementResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/announcements/{id} [put]
func (h *AnnouncementsHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.UpdateAnnouncementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete an announcement
// @Tags         announcements
// @Security     BearerAuth
// @Param        id path int true "Announcement id"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/announcements/{id} [delete]
func (h *AnnouncementsHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
