package repository

import (
	"context"
	"sync"

	"github.com/nsda/portal/internal/model"
)

// ResourceRepository stores the shared learning-resource library.
type ResourceRepository struct {
	mu    sync.RWMutex
	items ordered[model.Resource]
}

// NewResourceRepository creates an empty ResourceRepository.
func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{items: newOrdered[model.Resource]()}
}

// List returns resources newest first.
func (r *ResourceRepository) List(_ context.Context) []model.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.items.newestFirst()
	out := make([]model.Resource, len(recs))
	for i, res := range recs {
		out[i] = *res
	}
	return out
}

// Create stores a new resource.
func (r *ResourceRepository) Create(_ context.Context, req model.ResourceRequest) model.Resource {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := model.Resource{ID: newID(), Name: req.Name, Link: req.Link, Category: req.Category}
	r.items.put(res.ID, &res)
	return res
}

// Delete removes a resource.
func (r *ResourceRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.items.remove(id) {
		return ErrNotFound
	}
	return nil
}
