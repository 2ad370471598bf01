package view

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/service"
	"github.com/rs/zerolog"
)

func taskID(t model.Task) string { return t.ID }

// StudentTaskAPI is what the student task board needs from the backend.
type StudentTaskAPI interface {
	StudentTasks(ctx context.Context, filter service.TaskFilter) ([]model.Task, error)
	Submit(ctx context.Context, taskID string, req model.SubmitTaskRequest) (*model.Submission, error)
	MarkResourceRead(ctx context.Context, taskID, resourceID string, read bool) error
}

// TaskBoard is the student's task list. Its dependency is the status filter.
type TaskBoard struct {
	*List[model.Task]
	api       StudentTaskAPI
	studentID string

	filter atomic.Value
}

// NewTaskBoard creates a board for the signed-in student.
func NewTaskBoard(api StudentTaskAPI, studentID string, log zerolog.Logger) *TaskBoard {
	b := &TaskBoard{
		List:      NewList(taskID, log.With().Str("view", "task_board").Logger()),
		api:       api,
		studentID: studentID,
	}
	b.filter.Store(service.FilterAll)
	return b
}

// Filter returns the active filter.
func (b *TaskBoard) Filter() service.TaskFilter {
	return b.filter.Load().(service.TaskFilter)
}

// Mount loads the board with the current filter.
func (b *TaskBoard) Mount(ctx context.Context) bool {
	return b.load(ctx, b.Filter())
}

// SetFilter switches the filter and reloads. A load for an older filter that
// finishes later is discarded.
func (b *TaskBoard) SetFilter(ctx context.Context, f service.TaskFilter) bool {
	b.filter.Store(f)
	return b.load(ctx, f)
}

func (b *TaskBoard) load(ctx context.Context, f service.TaskFilter) bool {
	return b.Load(ctx, string(f), func(ctx context.Context) ([]model.Task, error) {
		return b.api.StudentTasks(ctx, f)
	})
}

// Submit marks the task submitted locally and hands in the work.
func (b *TaskBoard) Submit(ctx context.Context, taskID string, req model.SubmitTaskRequest) (Mutation, error) {
	optimistic := &model.Submission{
		TaskID:      taskID,
		StudentID:   b.studentID,
		Link:        req.SubmissionLink,
		Notes:       req.SubmissionNotes,
		Grade:       model.GradePending,
		SubmittedAt: time.Now().UTC(),
	}
	return b.Patch(ctx, taskID, func(t model.Task) model.Task {
		t.Status = model.TaskSubmitted
		t.Submission = optimistic
		return t
	}, func(ctx context.Context) (*model.Task, error) {
		sub, err := b.api.Submit(ctx, taskID, req)
		if err != nil || sub == nil || sub.ID == "" {
			return nil, err
		}
		t, ok := b.Find(taskID)
		if !ok {
			return nil, nil
		}
		t.Submission = sub
		return &t, nil
	})
}

// MarkRead toggles the student's read mark on a task resource.
func (b *TaskBoard) MarkRead(ctx context.Context, taskID, resourceID string, read bool) (Mutation, error) {
	return b.Patch(ctx, taskID, func(t model.Task) model.Task {
		resources := make([]model.TaskResource, len(t.Resources))
		copy(resources, t.Resources)
		for i, r := range resources {
			if r.ID != resourceID {
				continue
			}
			readBy := make([]string, 0, len(r.ReadBy)+1)
			for _, id := range r.ReadBy {
				if id != b.studentID {
					readBy = append(readBy, id)
				}
			}
			if read {
				readBy = append(readBy, b.studentID)
			}
			resources[i].ReadBy = readBy
		}
		t.Resources = resources
		return t
	}, func(ctx context.Context) (*model.Task, error) {
		return nil, b.api.MarkResourceRead(ctx, taskID, resourceID, read)
	})
}

// Counts tallies the loaded tasks by status.
func (b *TaskBoard) Counts() map[model.TaskStatus]int {
	counts := map[model.TaskStatus]int{model.TaskToDo: 0, model.TaskSubmitted: 0, model.TaskGraded: 0}
	for _, t := range b.Items() {
		status := t.Status
		if status == "" {
			status = model.TaskToDo
		}
		counts[status]++
	}
	return counts
}

// AdminTaskAPI is what the admin task catalog needs from the backend.
type AdminTaskAPI interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error)
}

// TaskCatalog is the admin's list of published tasks.
type TaskCatalog struct {
	*List[model.Task]
	api AdminTaskAPI
}

// NewTaskCatalog creates a new TaskCatalog.
func NewTaskCatalog(api AdminTaskAPI, log zerolog.Logger) *TaskCatalog {
	return &TaskCatalog{
		List: NewList(taskID, log.With().Str("view", "task_catalog").Logger()),
		api:  api,
	}
}

func (c *TaskCatalog) Mount(ctx context.Context) bool {
	return c.Load(ctx, "", c.api.List)
}

// Create shows the new task at the top immediately. On failure it stays in
// the list as draftID and the caller keeps the form open; retrying with the
// same draftID replaces the draft. An empty draftID allocates a new one.
func (c *TaskCatalog) Create(ctx context.Context, draftID string, req model.CreateTaskRequest) (Mutation, error) {
	optimistic := model.Task{
		ID:            draftOrNew(draftID),
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		EstimatedTime: req.EstimatedTime,
		Resources:     req.Resources,
		CreatedAt:     time.Now().UTC(),
	}
	return c.Prepend(ctx, optimistic, func(ctx context.Context) (*model.Task, error) {
		return c.api.Create(ctx, req)
	})
}

// Totals sums submission and pending-grade counts across the catalog.
func (c *TaskCatalog) Totals() (submissions, pending int) {
	for _, t := range c.Items() {
		submissions += t.SubmissionCount
		pending += t.PendingCount
	}
	return submissions, pending
}
