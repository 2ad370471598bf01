package repository

import (
	"context"
	"sync"
	"time"

	"github.com/nsda/portal/internal/model"
)

// AnnouncementRepository stores portal announcements.
type AnnouncementRepository struct {
	mu    sync.RWMutex
	items ordered[model.Announcement]
}

// NewAnnouncementRepository creates an empty AnnouncementRepository.
func NewAnnouncementRepository() *AnnouncementRepository {
	return &AnnouncementRepository{items: newOrdered[model.Announcement]()}
}

// List returns announcements newest first.
func (r *AnnouncementRepository) List(_ context.Context) []model.Announcement {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.items.newestFirst()
	out := make([]model.Announcement, len(recs))
	for i, a := range recs {
		out[i] = *a
	}
	return out
}

// Create stores a new announcement.
func (r *AnnouncementRepository) Create(_ context.Context, req model.AnnouncementRequest) model.Announcement {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := model.Announcement{
		ID:        newID(),
		Title:     req.Title,
		Message:   req.Message,
		Category:  model.NormalizeCategory(req.Category),
		CreatedAt: time.Now().UTC(),
	}
	r.items.put(a.ID, &a)
	return a
}

// Update replaces the content of an announcement.
func (r *AnnouncementRepository) Update(_ context.Context, id string, req model.AnnouncementRequest) (model.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items.get(id)
	if !ok {
		return model.Announcement{}, ErrNotFound
	}
	a.Title = req.Title
	a.Message = req.Message
	a.Category = model.NormalizeCategory(req.Category)
	return *a, nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.items.remove(id) {
		return ErrNotFound
	}
	return nil
}
