package service

import (
	"context"
	"net/http"

	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/model"
)

// ResourceService manages the shared learning resource library.
type ResourceService struct {
	api Requester
}

// NewResourceService creates a new ResourceService.
func NewResourceService(api Requester) *ResourceService {
	return &ResourceService{api: api}
}

func (s *ResourceService) List(ctx context.Context) ([]model.Resource, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/resources", nil)
	if err != nil {
		return nil, err
	}
	return apiclient.UnwrapList[model.Resource](raw, "resources")
}

func (s *ResourceService) Create(ctx context.Context, req model.ResourceRequest) (*model.Resource, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, http.MethodPost, "/resources", req)
	if err != nil {
		return nil, err
	}
	r, err := apiclient.UnwrapObject[model.Resource](raw, "resource")
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ResourceService) Delete(ctx context.Context, id string) error {
	_, err := s.api.Request(ctx, http.MethodDelete, pathf("/resources/%s", id), nil)
	return err
}
