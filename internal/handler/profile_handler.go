package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	users *repository.UserRepository
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users *repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Get godoc
// GET /profile/me
func (h *ProfileHandler) Get(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	p, err := h.users.GetProfile(c.Request.Context(), u.ID)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Update godoc
// PUT /profile/me
func (h *ProfileHandler) Update(c *gin.Context) {
	var req model.ProfileUpdateRequest
	if !bind(c, &req) {
		return
	}
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	p, err := h.users.UpdateProfile(c.Request.Context(), u.ID, req)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}
