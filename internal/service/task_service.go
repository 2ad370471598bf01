package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/model"
)

// TaskFilter selects which of a student's tasks to list.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterToDo      TaskFilter = "todo"
	FilterSubmitted TaskFilter = "submitted"
	FilterGraded    TaskFilter = "graded"
)

// ParseTaskFilter accepts the filter names and the task status names.
func ParseTaskFilter(s string) (TaskFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "todo", "to_do", "to-do":
		return FilterToDo, nil
	case "submitted":
		return FilterSubmitted, nil
	case "graded":
		return FilterGraded, nil
	default:
		return "", fmt.Errorf("unknown task filter %q: use all, todo, submitted or graded", s)
	}
}

// Matches reports whether a task with status belongs in the filter.
func (f TaskFilter) Matches(status model.TaskStatus) bool {
	switch f {
	case FilterToDo:
		return status == model.TaskToDo
	case FilterSubmitted:
		return status == model.TaskSubmitted
	case FilterGraded:
		return status == model.TaskGraded
	default:
		return true
	}
}

// TaskService covers both the admin task catalog and the student task board.
type TaskService struct {
	api Requester
}

// NewTaskService creates a new TaskService.
func NewTaskService(api Requester) *TaskService {
	return &TaskService{api: api}
}

// List returns every task with its submission counts (admin).
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}
	return apiclient.UnwrapList[model.Task](raw, "tasks")
}

// Create publishes a new task (admin).
func (s *TaskService) Create(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, http.MethodPost, "/tasks", req)
	if err != nil {
		return nil, err
	}
	task, err := apiclient.UnwrapObject[model.Task](raw, "task")
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Submissions lists every student's submission for a task (admin).
func (s *TaskService) Submissions(ctx context.Context, taskID string) ([]model.Submission, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, pathf("/tasks/%s/submissions", taskID), nil)
	if err != nil {
		return nil, err
	}
	return apiclient.UnwrapList[model.Submission](raw, "submissions")
}

// Grade records a grade and feedback for one student's submission (admin).
// The returned submission is nil when the backend sends no body.
func (s *TaskService) Grade(ctx context.Context, taskID, studentID string, req model.GradeRequest) (*model.Submission, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, http.MethodPost, pathf("/tasks/%s/grade/%s", taskID, studentID), req)
	if err != nil || raw == nil {
		return nil, err
	}
	sub, err := apiclient.UnwrapObject[model.Submission](raw, "submission")
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// StudentTasks lists the signed-in student's tasks matching filter.
func (s *TaskService) StudentTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	if filter == "" {
		filter = FilterAll
	}
	raw, err := s.api.Request(ctx, http.MethodGet, pathf("/tasks/student/%s", string(filter)), nil)
	if err != nil {
		return nil, err
	}
	return apiclient.UnwrapList[model.Task](raw, "tasks")
}

// Submit hands in the signed-in student's work for a task.
func (s *TaskService) Submit(ctx context.Context, taskID string, req model.SubmitTaskRequest) (*model.Submission, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, http.MethodPost, pathf("/tasks/%s/submit", taskID), req)
	if err != nil || raw == nil {
		return nil, err
	}
	sub, err := apiclient.UnwrapObject[model.Submission](raw, "submission")
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// MarkResourceRead toggles the signed-in student's read mark on a task resource.
func (s *TaskService) MarkResourceRead(ctx context.Context, taskID, resourceID string, read bool) error {
	method := http.MethodPost
	if !read {
		method = http.MethodDelete
	}
	_, err := s.api.Request(ctx, method, pathf("/tasks/%s/resources/%s/read", taskID, resourceID), nil)
	return err
}
