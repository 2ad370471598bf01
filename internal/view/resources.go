package view

import (
	"context"
	"sort"

	"github.com/nsda/portal/internal/model"
	"github.com/rs/zerolog"
)

// ResourceAPI is what the resource shelf needs from the backend.
type ResourceAPI interface {
	List(ctx context.Context) ([]model.Resource, error)
	Create(ctx context.Context, req model.ResourceRequest) (*model.Resource, error)
	Delete(ctx context.Context, id string) error
}

// ResourceShelf lists the shared learning resources.
type ResourceShelf struct {
	*List[model.Resource]
	api ResourceAPI
}

// NewResourceShelf creates a new ResourceShelf.
func NewResourceShelf(api ResourceAPI, log zerolog.Logger) *ResourceShelf {
	return &ResourceShelf{
		List: NewList(func(r model.Resource) string { return r.ID }, log.With().Str("view", "resource_shelf").Logger()),
		api:  api,
	}
}

func (s *ResourceShelf) Mount(ctx context.Context) bool {
	return s.Load(ctx, "", s.api.List)
}

func (s *ResourceShelf) Create(ctx context.Context, draftID string, req model.ResourceRequest) (Mutation, error) {
	optimistic := model.Resource{ID: draftOrNew(draftID), Name: req.Name, Link: req.Link, Category: req.Category}
	return s.Prepend(ctx, optimistic, func(ctx context.Context) (*model.Resource, error) {
		return s.api.Create(ctx, req)
	})
}

func (s *ResourceShelf) Delete(ctx context.Context, id string) (Mutation, error) {
	return s.Remove(ctx, id, func(ctx context.Context) error {
		return s.api.Delete(ctx, id)
	})
}

// Categories returns the distinct categories in the shelf, sorted.
func (s *ResourceShelf) Categories() []string {
	seen := map[string]struct{}{}
	for _, r := range s.Items() {
		seen[r.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
