package model

import "time"

// TaskStatus is the student-facing progress of a task.
type TaskStatus string

const (
	TaskToDo      TaskStatus = "TO_DO"
	TaskSubmitted TaskStatus = "SUBMITTED"
	TaskGraded    TaskStatus = "GRADED"
)

// Grade sentinels used by the backend before a real grade is recorded.
const (
	GradePending      = "pending"
	GradeNotSubmitted = "not-submitted"
)

// Task is an assignment published by an admin.
type Task struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Deadline        string         `json:"deadline"`
	EstimatedTime   string         `json:"estimatedTime,omitempty"`
	Status          TaskStatus     `json:"status,omitempty"`
	Resources       []TaskResource `json:"resources"`
	Submission      *Submission    `json:"submission,omitempty"`
	SubmissionCount int            `json:"submissionCount,omitempty"`
	PendingCount    int            `json:"pendingCount,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// TaskResource is a supporting link attached to a task.
type TaskResource struct {
	ID       string   `json:"id"`
	Title    string   `json:"title" binding:"required,max=200"`
	Link     string   `json:"link" binding:"required,url"`
	Category string   `json:"category,omitempty"`
	ReadBy   []string `json:"readBy,omitempty"`
}

// IsReadBy reports whether the given student marked the resource as read.
func (r TaskResource) IsReadBy(studentID string) bool {
	for _, id := range r.ReadBy {
		if id == studentID {
			return true
		}
	}
	return false
}

// Submission is a student's answer to a task.
type Submission struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName,omitempty"`
	Link        string    `json:"link"`
	Notes       string    `json:"notes,omitempty"`
	Grade       string    `json:"grade,omitempty"`
	Feedback    string    `json:"feedback,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Status derives the grading state from the grade field.
func (s Submission) Status() TaskStatus {
	switch s.Grade {
	case GradeNotSubmitted:
		return TaskToDo
	case GradePending, "":
		return TaskSubmitted
	default:
		return TaskGraded
	}
}

// CreateTaskRequest is the payload for POST /tasks.
type CreateTaskRequest struct {
	Title         string         `json:"title" binding:"required,min=3,max=200"`
	Description   string         `json:"description" binding:"required,max=5000"`
	Deadline      string         `json:"deadline" binding:"required,datetime=2006-01-02"`
	EstimatedTime string         `json:"estimatedTime" binding:"max=50"`
	Resources     []TaskResource `json:"resources" binding:"dive"`
}

// SubmitTaskRequest is the payload for POST /tasks/:id/submit.
type SubmitTaskRequest struct {
	SubmissionLink  string `json:"submissionLink" binding:"required,url"`
	SubmissionNotes string `json:"submissionNotes" binding:"max=2000"`
}

// GradeRequest is the payload for POST /tasks/:id/grade/:studentId.
type GradeRequest struct {
	FinalGrade    string `json:"finalGrade" binding:"required,max=10"`
	AdminFeedback string `json:"adminFeedback" binding:"max=2000"`
}
