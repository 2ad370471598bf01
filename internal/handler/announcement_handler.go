package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
)

// AnnouncementHandler serves announcements. Reading is open to every
// signed-in user; writing is admin only.
type AnnouncementHandler struct {
	announcements *repository.AnnouncementRepository
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(announcements *repository.AnnouncementRepository) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// List godoc
// GET /announcements
func (h *AnnouncementHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.announcements.List(c.Request.Context()))
}

// Create godoc
// POST /announcements (admin)
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req model.AnnouncementRequest
	if !bind(c, &req) {
		return
	}
	response.Success(c, http.StatusCreated, h.announcements.Create(c.Request.Context(), req))
}

// Update godoc
// PUT /announcements/:id (admin)
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req model.AnnouncementRequest
	if !bind(c, &req) {
		return
	}
	a, err := h.announcements.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// Delete godoc
// DELETE /announcements/:id (admin)
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.announcements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failRepo(c, err)
		return
	}
	response.NoContent(c)
}
