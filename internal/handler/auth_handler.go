package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/auth"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
	"github.com/rs/zerolog"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
	users       *repository.UserRepository
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, users *repository.UserRepository, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		users:       users,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Register godoc
// POST /auth/register
// Creates a student account. The caller signs in separately.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bind(c, &req) {
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		failRepo(c, err)
		return
	}
	u, err := h.users.Create(c.Request.Context(), model.User{Name: req.Name, Email: req.Email, Role: model.RoleStudent}, hash)
	if err != nil {
		failRepo(c, err)
		return
	}

	h.log.Info().Str("user_id", u.ID).Msg("Account registered")
	response.Success(c, http.StatusCreated, u)
}

// Login godoc
// POST /auth/login
// Returns {user, accessToken}.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bind(c, &req) {
		return
	}

	u, hash, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}
	if err := h.authService.CheckPassword(hash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(u)
	if err != nil {
		failRepo(c, err)
		return
	}

	h.log.Info().Str("user_id", u.ID).Str("role", u.Role.String()).Msg("User logged in")
	c.JSON(http.StatusOK, model.LoginResponse{User: u, AccessToken: token})
}

// Me godoc
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	response.Keyed(c, http.StatusOK, "user", u)
}

// ChangePassword godoc
// PATCH /auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if !bind(c, &req) {
		return
	}
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	hash, err := h.users.PasswordHash(ctx, u.ID)
	if err != nil {
		failRepo(c, err)
		return
	}
	if err := h.authService.CheckPassword(hash, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Fail(c, http.StatusBadRequest, response.ErrWrongPassword)
			return
		}
		failRepo(c, err)
		return
	}

	newHash, err := h.authService.HashPassword(req.NewPassword)
	if err != nil {
		failRepo(c, err)
		return
	}
	if err := h.users.UpdatePassword(ctx, u.ID, newHash); err != nil {
		failRepo(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
