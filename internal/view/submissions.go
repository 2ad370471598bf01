package view

import (
	"context"

	"github.com/nsda/portal/internal/model"
	"github.com/rs/zerolog"
)

// GradingAPI is what the submission queue needs from the backend.
type GradingAPI interface {
	Submissions(ctx context.Context, taskID string) ([]model.Submission, error)
	Grade(ctx context.Context, taskID, studentID string, req model.GradeRequest) (*model.Submission, error)
}

// SubmissionQueue lists one task's submissions for grading. Students who
// have not submitted are hidden. Items are keyed by student id.
type SubmissionQueue struct {
	*List[model.Submission]
	api    GradingAPI
	taskID string
}

// NewSubmissionQueue creates a queue for taskID.
func NewSubmissionQueue(api GradingAPI, taskID string, log zerolog.Logger) *SubmissionQueue {
	return &SubmissionQueue{
		List:   NewList(func(s model.Submission) string { return s.StudentID }, log.With().Str("view", "submission_queue").Str("task_id", taskID).Logger()),
		api:    api,
		taskID: taskID,
	}
}

func (q *SubmissionQueue) Mount(ctx context.Context) bool {
	return q.Load(ctx, q.taskID, func(ctx context.Context) ([]model.Submission, error) {
		subs, err := q.api.Submissions(ctx, q.taskID)
		if err != nil {
			return nil, err
		}
		visible := make([]model.Submission, 0, len(subs))
		for _, s := range subs {
			if s.Status() != model.TaskToDo {
				visible = append(visible, s)
			}
		}
		return visible, nil
	})
}

// PendingCount is the number of submissions still awaiting a grade.
func (q *SubmissionQueue) PendingCount() int {
	n := 0
	for _, s := range q.Items() {
		if s.Status() == model.TaskSubmitted {
			n++
		}
	}
	return n
}

// Grade applies the grade locally, then records it. A failed grade is not
// reverted; the caller keeps the form open for retry.
func (q *SubmissionQueue) Grade(ctx context.Context, studentID string, req model.GradeRequest) (Mutation, error) {
	return q.Patch(ctx, studentID, func(s model.Submission) model.Submission {
		s.Grade = req.FinalGrade
		s.Feedback = req.AdminFeedback
		return s
	}, func(ctx context.Context) (*model.Submission, error) {
		saved, err := q.api.Grade(ctx, q.taskID, studentID, req)
		if err != nil || saved == nil || saved.StudentID == "" {
			return nil, err
		}
		return saved, nil
	})
}
