package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
	"github.com/nsda/portal/internal/service"
)

// TaskHandler serves tasks for both dashboards.
type TaskHandler struct {
	tasks *repository.TaskRepository
	users *repository.UserRepository
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *repository.TaskRepository, users *repository.UserRepository) *TaskHandler {
	return &TaskHandler{tasks: tasks, users: users}
}

// List godoc
// GET /tasks (admin)
func (h *TaskHandler) List(c *gin.Context) {
	response.Keyed(c, http.StatusOK, "tasks", h.tasks.List(c.Request.Context()))
}

// Create godoc
// POST /tasks (admin)
func (h *TaskHandler) Create(c *gin.Context) {
	var req model.CreateTaskRequest
	if !bind(c, &req) {
		return
	}
	response.Keyed(c, http.StatusCreated, "task", h.tasks.Create(c.Request.Context(), req))
}

// Submissions godoc
// GET /tasks/:id/submissions (admin)
// Students without a submission are listed with the not-submitted grade.
func (h *TaskHandler) Submissions(c *gin.Context) {
	ctx := c.Request.Context()
	subs, err := h.tasks.Submissions(ctx, c.Param("id"), h.users.ListByRole(ctx, model.RoleStudent))
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Keyed(c, http.StatusOK, "submissions", subs)
}

// Grade godoc
// POST /tasks/:id/grade/:studentId (admin)
func (h *TaskHandler) Grade(c *gin.Context) {
	var req model.GradeRequest
	if !bind(c, &req) {
		return
	}
	sub, err := h.tasks.Grade(c.Request.Context(), c.Param("id"), c.Param("studentId"), req)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Keyed(c, http.StatusOK, "submission", sub)
}

// StudentTasks godoc
// GET /tasks/student/:filter
// Lists the caller's tasks; filter is all, todo, submitted or graded.
func (h *TaskHandler) StudentTasks(c *gin.Context) {
	filter, err := service.ParseTaskFilter(c.Param("filter"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFilter)
		return
	}
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	all := h.tasks.ForStudent(c.Request.Context(), u.ID)
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if filter.Matches(t.Status) {
			out = append(out, t)
		}
	}
	response.Keyed(c, http.StatusOK, "tasks", out)
}

// Submit godoc
// POST /tasks/:id/submit
func (h *TaskHandler) Submit(c *gin.Context) {
	var req model.SubmitTaskRequest
	if !bind(c, &req) {
		return
	}
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	sub, err := h.tasks.Submit(c.Request.Context(), c.Param("id"), u, req)
	if err != nil {
		failRepo(c, err)
		return
	}
	response.Keyed(c, http.StatusCreated, "submission", sub)
}

// MarkRead godoc
// POST /tasks/:id/resources/:rid/read
func (h *TaskHandler) MarkRead(c *gin.Context) {
	h.setRead(c, true)
}

// UnmarkRead godoc
// DELETE /tasks/:id/resources/:rid/read
func (h *TaskHandler) UnmarkRead(c *gin.Context) {
	h.setRead(c, false)
}

func (h *TaskHandler) setRead(c *gin.Context, read bool) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.tasks.MarkRead(c.Request.Context(), c.Param("id"), c.Param("rid"), u.ID, read); err != nil {
		failRepo(c, err)
		return
	}
	response.NoContent(c)
}
