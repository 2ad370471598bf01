package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
)

// ResourceHandler serves the learning-resource library.
type ResourceHandler struct {
	resources *repository.ResourceRepository
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resources *repository.ResourceRepository) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// List godoc
// GET /resources
func (h *ResourceHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.resources.List(c.Request.Context()))
}

// Create godoc
// POST /resources (admin)
func (h *ResourceHandler) Create(c *gin.Context) {
	var req model.ResourceRequest
	if !bind(c, &req) {
		return
	}
	response.Success(c, http.StatusCreated, h.resources.Create(c.Request.Context(), req))
}

// Delete godoc
// DELETE /resources/:id (admin)
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.resources.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failRepo(c, err)
		return
	}
	response.NoContent(c)
}
