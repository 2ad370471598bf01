package service

import (
	"context"
	"net/http"

	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/model"
)

// ProfileService reads and edits the signed-in student's profile.
type ProfileService struct {
	api Requester
}

// NewProfileService creates a new ProfileService.
func NewProfileService(api Requester) *ProfileService {
	return &ProfileService{api: api}
}

func (s *ProfileService) Get(ctx context.Context) (*model.Profile, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/profile/me", nil)
	if err != nil {
		return nil, err
	}
	p, err := apiclient.UnwrapObject[model.Profile](raw, "profile")
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) Update(ctx context.Context, req model.ProfileUpdateRequest) (*model.Profile, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	raw, err := s.api.Request(ctx, http.MethodPut, "/profile/me", req)
	if err != nil {
		return nil, err
	}
	p, err := apiclient.UnwrapObject[model.Profile](raw, "profile")
	if err != nil {
		return nil, err
	}
	return &p, nil
}
