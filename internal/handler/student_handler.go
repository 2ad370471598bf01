package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
)

// StudentHandler manages the admin student roster.
type StudentHandler struct {
	students *repository.StudentRepository
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students *repository.StudentRepository) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// GET /students
func (h *StudentHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.students.List(c.Request.Context()))
}

// Create godoc
// POST /students
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.StudentRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Success(c, http.StatusCreated, s)
}

// Update godoc
// PUT /students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	var req model.StudentRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

// SetStatus godoc
// PATCH /students/:id/status
func (h *StudentHandler) SetStatus(c *gin.Context) {
	var req model.StudentStatusRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.students.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

// Assign godoc
// PATCH /students/:id/assign
func (h *StudentHandler) Assign(c *gin.Context) {
	var req model.AssignStudentRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.students.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

// Delete godoc
// DELETE /students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failRepo(c, err)
		return
	}
	response.NoContent(c)
}
