package repository

import (
	"context"
	"sync"
	"time"

	"github.com/nsda/portal/internal/model"
)

type taskRecord struct {
	task        model.Task
	submissions map[string]*model.Submission // by student ID
}

// TaskRepository stores tasks, their submissions and per-student reading
// progress.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks ordered[taskRecord]
	now   func() time.Time
}

// NewTaskRepository creates an empty TaskRepository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: newOrdered[taskRecord](), now: time.Now}
}

// Create stores a new task. Resources receive their own IDs.
func (r *TaskRepository) Create(_ context.Context, req model.CreateTaskRequest) model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	resources := make([]model.TaskResource, len(req.Resources))
	for i, res := range req.Resources {
		resources[i] = model.TaskResource{ID: newID(), Title: res.Title, Link: res.Link, Category: res.Category}
	}
	t := model.Task{
		ID:            newID(),
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		EstimatedTime: req.EstimatedTime,
		Resources:     resources,
		CreatedAt:     r.now().UTC(),
	}
	r.tasks.put(t.ID, &taskRecord{task: t, submissions: map[string]*model.Submission{}})
	return copyTask(t)
}

// List returns every task with submission counts, newest first.
func (r *TaskRepository) List(_ context.Context) []model.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.tasks.newestFirst()
	out := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		t := copyTask(rec.task)
		for _, s := range rec.submissions {
			t.SubmissionCount++
			if s.Status() == model.TaskSubmitted {
				t.PendingCount++
			}
		}
		out = append(out, t)
	}
	return out
}

// Get retrieves a task by ID.
func (r *TaskRepository) Get(_ context.Context, id string) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.tasks.get(id)
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return copyTask(rec.task), nil
}

// ForStudent returns every task as seen by studentID: with its status and
// the student's own submission.
func (r *TaskRepository) ForStudent(_ context.Context, studentID string) []model.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.tasks.newestFirst()
	out := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		t := copyTask(rec.task)
		t.Status = model.TaskToDo
		if s, ok := rec.submissions[studentID]; ok {
			sub := *s
			t.Submission = &sub
			t.Status = sub.Status()
		}
		out = append(out, t)
	}
	return out
}

// Submit records or replaces a student's submission. A resubmission goes
// back to pending.
func (r *TaskRepository) Submit(_ context.Context, taskID string, student model.User, req model.SubmitTaskRequest) (model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks.get(taskID)
	if !ok {
		return model.Submission{}, ErrNotFound
	}
	s, ok := rec.submissions[student.ID]
	if !ok {
		s = &model.Submission{ID: newID(), TaskID: taskID, StudentID: student.ID}
		rec.submissions[student.ID] = s
	}
	s.StudentName = student.Name
	s.Link = req.SubmissionLink
	s.Notes = req.SubmissionNotes
	s.Grade = model.GradePending
	s.Feedback = ""
	s.SubmittedAt = r.now().UTC()
	return *s, nil
}

// Submissions lists a task's submissions. Every student in roster without
// one is listed with the not-submitted grade.
func (r *TaskRepository) Submissions(_ context.Context, taskID string, roster []model.User) ([]model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.tasks.get(taskID)
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.Submission, 0, len(roster)+len(rec.submissions))
	for _, s := range rec.submissions {
		out = append(out, *s)
	}
	for _, u := range roster {
		if _, ok := rec.submissions[u.ID]; !ok {
			out = append(out, model.Submission{TaskID: taskID, StudentID: u.ID, StudentName: u.Name, Grade: model.GradeNotSubmitted})
		}
	}
	return out, nil
}

// Grade sets the final grade and feedback on a student's submission.
func (r *TaskRepository) Grade(_ context.Context, taskID, studentID string, req model.GradeRequest) (model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks.get(taskID)
	if !ok {
		return model.Submission{}, ErrNotFound
	}
	s, ok := rec.submissions[studentID]
	if !ok {
		return model.Submission{}, ErrNotSubmitted
	}
	s.Grade = req.FinalGrade
	s.Feedback = req.AdminFeedback
	return *s, nil
}

// MarkRead records or clears that studentID read a task resource.
func (r *TaskRepository) MarkRead(_ context.Context, taskID, resourceID, studentID string, read bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks.get(taskID)
	if !ok {
		return ErrNotFound
	}
	for i := range rec.task.Resources {
		res := &rec.task.Resources[i]
		if res.ID != resourceID {
			continue
		}
		kept := res.ReadBy[:0:0]
		for _, id := range res.ReadBy {
			if id != studentID {
				kept = append(kept, id)
			}
		}
		if read {
			kept = append(kept, studentID)
		}
		res.ReadBy = kept
		return nil
	}
	return ErrNotFound
}

func copyTask(t model.Task) model.Task {
	res := make([]model.TaskResource, len(t.Resources))
	for i, r := range t.Resources {
		r.ReadBy = append([]string(nil), r.ReadBy...)
		res[i] = r
	}
	t.Resources = res
	return t
}
