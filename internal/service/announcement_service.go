package service

import (
	"context"
	"net/http"

	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/model"
)

// AnnouncementService manages portal-wide notices.
type AnnouncementService struct {
	api Requester
}

// NewAnnouncementService creates a new AnnouncementService.
func NewAnnouncementService(api Requester) *AnnouncementService {
	return &AnnouncementService{api: api}
}

func (s *AnnouncementService) List(ctx context.Context) ([]model.Announcement, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/announcements", nil)
	if err != nil {
		return nil, err
	}
	return apiclient.UnwrapList[model.Announcement](raw, "announcements")
}

func (s *AnnouncementService) Create(ctx context.Context, req model.AnnouncementRequest) (*model.Announcement, error) {
	return s.save(ctx, http.MethodPost, "/announcements", req)
}

func (s *AnnouncementService) Update(ctx context.Context, id string, req model.AnnouncementRequest) (*model.Announcement, error) {
	return s.save(ctx, http.MethodPut, pathf("/announcements/%s", id), req)
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	_, err := s.api.Request(ctx, http.MethodDelete, pathf("/announcements/%s", id), nil)
	return err
}

func (s *AnnouncementService) save(ctx context.Context, method, path string, req model.AnnouncementRequest) (*model.Announcement, error) {
	if req.Category != "" {
		req.Category = model.NormalizeCategory(req.Category)
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, method, path, req)
	if err != nil {
		return nil, err
	}
	a, err := apiclient.UnwrapObject[model.Announcement](raw, "announcement")
	if err != nil {
		return nil, err
	}
	return &a, nil
}
