package view

import (
	"context"
	"strings"

	"github.com/nsda/portal/internal/model"
	"github.com/rs/zerolog"
)

// RosterAPI is what the student roster needs from the backend.
type RosterAPI interface {
	List(ctx context.Context) ([]model.Student, error)
	Create(ctx context.Context, req model.StudentRequest) (*model.Student, error)
	SetStatus(ctx context.Context, id string, status model.StudentStatus) (*model.Student, error)
	Delete(ctx context.Context, id string) error
}

// RosterQuery narrows the roster locally. Empty fields match everything.
type RosterQuery struct {
	Search string
	Status model.StudentStatus
	Track  string
}

func (q RosterQuery) matches(s model.Student) bool {
	if q.Status != "" && s.Status != q.Status {
		return false
	}
	if q.Track != "" && !strings.EqualFold(s.Track, q.Track) {
		return false
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(s.Name), needle) ||
		strings.Contains(strings.ToLower(s.Email), needle)
}

// Roster is the admin's student list.
type Roster struct {
	*List[model.Student]
	api RosterAPI
}

// NewRoster creates a new Roster.
func NewRoster(api RosterAPI, log zerolog.Logger) *Roster {
	return &Roster{
		List: NewList(func(s model.Student) string { return s.ID }, log.With().Str("view", "roster").Logger()),
		api:  api,
	}
}

func (r *Roster) Mount(ctx context.Context) bool {
	return r.Load(ctx, "", r.api.List)
}

// Filtered returns the loaded students matching q.
func (r *Roster) Filtered(q RosterQuery) []model.Student {
	var out []model.Student
	for _, s := range r.Items() {
		if q.matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// ActiveCount is the number of Active students.
func (r *Roster) ActiveCount() int {
	return len(r.Filtered(RosterQuery{Status: model.StudentActive}))
}

func (r *Roster) Create(ctx context.Context, draftID string, req model.StudentRequest) (Mutation, error) {
	status := req.Status
	if status == "" {
		status = model.StudentActive
	}
	optimistic := model.Student{ID: draftOrNew(draftID), Name: req.Name, Email: req.Email, Phone: req.Phone, Track: req.Track, Status: status, Notes: req.Notes}
	return r.Prepend(ctx, optimistic, func(ctx context.Context) (*model.Student, error) {
		return r.api.Create(ctx, req)
	})
}

// ToggleBlacklist flips a student between Active and Blacklisted.
func (r *Roster) ToggleBlacklist(ctx context.Context, id string) (Mutation, error) {
	s, ok := r.Find(id)
	if !ok {
		return Mutation{Op: OpPatch, ID: id}, ErrNotFound
	}
	next := model.StudentBlacklisted
	if s.Status == model.StudentBlacklisted {
		next = model.StudentActive
	}
	return r.SetStatus(ctx, id, next)
}

// SetStatus changes the student's status locally, then records it.
func (r *Roster) SetStatus(ctx context.Context, id string, status model.StudentStatus) (Mutation, error) {
	return r.Patch(ctx, id, func(s model.Student) model.Student {
		s.Status = status
		return s
	}, func(ctx context.Context) (*model.Student, error) {
		saved, err := r.api.SetStatus(ctx, id, status)
		if err != nil || saved == nil || saved.ID == "" {
			return nil, err
		}
		return saved, nil
	})
}

// Delete hides the student immediately and restores them if the backend
// refuses.
func (r *Roster) Delete(ctx context.Context, id string) (Mutation, error) {
	return r.Remove(ctx, id, func(ctx context.Context) error {
		return r.api.Delete(ctx, id)
	})
}
