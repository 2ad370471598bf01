package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
)

// AttendanceHandler serves daily attendance.
type AttendanceHandler struct {
	attendance *repository.AttendanceRepository
	users      *repository.UserRepository
	now        func() time.Time
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendance *repository.AttendanceRepository, users *repository.UserRepository) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, users: users, now: time.Now}
}

// History godoc
// GET /attendance/history
func (h *AttendanceHandler) History(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, h.attendance.History(c.Request.Context(), u.ID))
}

// WeeklySummary godoc
// GET /attendance/summary/weekly
func (h *AttendanceHandler) WeeklySummary(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, h.attendance.WeeklySummary(c.Request.Context(), u.ID, h.now()))
}

// Mark godoc
// POST /attendance/mark
// Records the caller as present today; 409 when already marked.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	rec, err := h.attendance.Mark(c.Request.Context(), u, h.now())
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// All godoc
// GET /attendance/admin/all (admin)
func (h *AttendanceHandler) All(c *gin.Context) {
	response.Success(c, http.StatusOK, h.attendance.All(c.Request.Context()))
}
