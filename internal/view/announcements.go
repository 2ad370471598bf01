package view

import (
	"context"
	"time"

	"github.com/nsda/portal/internal/model"
	"github.com/rs/zerolog"
)

// AnnouncementAPI is what the announcement feed needs from the backend.
type AnnouncementAPI interface {
	List(ctx context.Context) ([]model.Announcement, error)
	Create(ctx context.Context, req model.AnnouncementRequest) (*model.Announcement, error)
	Update(ctx context.Context, id string, req model.AnnouncementRequest) (*model.Announcement, error)
	Delete(ctx context.Context, id string) error
}

// AnnouncementFeed lists announcements, newest first.
type AnnouncementFeed struct {
	*List[model.Announcement]
	api AnnouncementAPI
}

// NewAnnouncementFeed creates a new AnnouncementFeed.
func NewAnnouncementFeed(api AnnouncementAPI, log zerolog.Logger) *AnnouncementFeed {
	return &AnnouncementFeed{
		List: NewList(func(a model.Announcement) string { return a.ID }, log.With().Str("view", "announcement_feed").Logger()),
		api:  api,
	}
}

func (f *AnnouncementFeed) Mount(ctx context.Context) bool {
	return f.Load(ctx, "", f.api.List)
}

// Create prepends the announcement under draftID until the backend answers.
func (f *AnnouncementFeed) Create(ctx context.Context, draftID string, req model.AnnouncementRequest) (Mutation, error) {
	optimistic := model.Announcement{
		ID:        draftOrNew(draftID),
		Title:     req.Title,
		Message:   req.Message,
		Category:  model.NormalizeCategory(req.Category),
		CreatedAt: time.Now().UTC(),
	}
	return f.Prepend(ctx, optimistic, func(ctx context.Context) (*model.Announcement, error) {
		return f.api.Create(ctx, req)
	})
}

func (f *AnnouncementFeed) Update(ctx context.Context, id string, req model.AnnouncementRequest) (Mutation, error) {
	return f.Patch(ctx, id, func(a model.Announcement) model.Announcement {
		a.Title = req.Title
		a.Message = req.Message
		a.Category = model.NormalizeCategory(req.Category)
		return a
	}, func(ctx context.Context) (*model.Announcement, error) {
		return f.api.Update(ctx, id, req)
	})
}

// Delete hides the announcement immediately and restores it if the backend
// refuses.
func (f *AnnouncementFeed) Delete(ctx context.Context, id string) (Mutation, error) {
	return f.Remove(ctx, id, func(ctx context.Context) error {
		return f.api.Delete(ctx, id)
	})
}
