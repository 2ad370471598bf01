// Package handler implements the development backend's HTTP endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/middleware"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
	"github.com/nsda/portal/internal/validator"
)

// bind decodes and validates the body into dst, writing a 400 on failure.
func bind(c *gin.Context, dst interface{}) bool {
	if fields := validator.Bind(c, dst); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return false
	}
	return true
}

// currentUser loads the account behind the request's token.
func currentUser(c *gin.Context, users *repository.UserRepository) (model.User, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return model.User{}, false
	}
	u, err := users.GetByID(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return model.User{}, false
	}
	return u, true
}

// failRepo maps repository errors onto responses.
func failRepo(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
	case errors.Is(err, repository.ErrAlreadyMarked):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyMarked)
	case errors.Is(err, repository.ErrNotSubmitted):
		response.Fail(c, http.StatusBadRequest, response.ErrNotSubmitted)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
