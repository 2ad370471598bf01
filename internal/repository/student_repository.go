package repository

import (
	"context"
	"sync"

	"github.com/nsda/portal/internal/model"
)

// StudentRepository stores the admin-managed student roster.
type StudentRepository struct {
	mu    sync.RWMutex
	items ordered[model.Student]
}

// NewStudentRepository creates an empty StudentRepository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{items: newOrdered[model.Student]()}
}

// List returns the roster, newest first.
func (r *StudentRepository) List(_ context.Context) []model.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.items.newestFirst()
	out := make([]model.Student, len(recs))
	for i, s := range recs {
		out[i] = *s
	}
	return out
}

// Create adds a student. Emails are unique; status defaults to Active.
func (r *StudentRepository) Create(_ context.Context, req model.StudentRequest) (model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(req.Email)
	if r.emailTakenLocked(email, "") {
		return model.Student{}, ErrDuplicateEmail
	}
	s := model.Student{ID: newID(), Status: model.StudentActive}
	apply(&s, req, email)
	r.items.put(s.ID, &s)
	return s, nil
}

// Update replaces the editable fields of a student.
func (r *StudentRepository) Update(_ context.Context, id string, req model.StudentRequest) (model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items.get(id)
	if !ok {
		return model.Student{}, ErrNotFound
	}
	email := normalizeEmail(req.Email)
	if r.emailTakenLocked(email, id) {
		return model.Student{}, ErrDuplicateEmail
	}
	apply(s, req, email)
	return *s, nil
}

// SetStatus changes a student's status.
func (r *StudentRepository) SetStatus(_ context.Context, id string, status model.StudentStatus) (model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items.get(id)
	if !ok {
		return model.Student{}, ErrNotFound
	}
	s.Status = status
	return *s, nil
}

// Assign sets a student's track, batch and mentor.
func (r *StudentRepository) Assign(_ context.Context, id string, req model.AssignStudentRequest) (model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items.get(id)
	if !ok {
		return model.Student{}, ErrNotFound
	}
	s.Track = req.Track
	s.Batch = req.Batch
	s.Mentor = req.Mentor
	return *s, nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.items.remove(id) {
		return ErrNotFound
	}
	return nil
}

func (r *StudentRepository) emailTakenLocked(email, exceptID string) bool {
	for id, s := range r.items.items {
		if id != exceptID && s.Email == email {
			return true
		}
	}
	return false
}

func apply(s *model.Student, req model.StudentRequest, email string) {
	s.Name = req.Name
	s.Email = email
	s.Phone = req.Phone
	s.Track = req.Track
	s.Notes = req.Notes
	if req.Status != "" {
		s.Status = req.Status
	}
}
