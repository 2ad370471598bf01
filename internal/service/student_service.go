package service

import (
	"context"
	"net/http"

	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/model"
)

// StudentService manages the admin roster.
type StudentService struct {
	api Requester
}

// NewStudentService creates a new StudentService.
func NewStudentService(api Requester) *StudentService {
	return &StudentService{api: api}
}

func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/students", nil)
	if err != nil {
		return nil, err
	}
	return apiclient.UnwrapList[model.Student](raw, "students")
}

func (s *StudentService) Create(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodPost, "/students", req)
}

func (s *StudentService) Update(ctx context.Context, id string, req model.StudentRequest) (*model.Student, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodPut, pathf("/students/%s", id), req)
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	_, err := s.api.Request(ctx, http.MethodDelete, pathf("/students/%s", id), nil)
	return err
}

// SetStatus changes a student's enrollment status.
func (s *StudentService) SetStatus(ctx context.Context, id string, status model.StudentStatus) (*model.Student, error) {
	req := model.StudentStatusRequest{Status: status}
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodPatch, pathf("/students/%s/status", id), req)
}

// Assign sets a student's track, batch and mentor.
func (s *StudentService) Assign(ctx context.Context, id string, req model.AssignStudentRequest) (*model.Student, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.one(ctx, http.MethodPatch, pathf("/students/%s/assign", id), req)
}

func (s *StudentService) one(ctx context.Context, method, path string, body any) (*model.Student, error) {
	raw, err := s.api.Request(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	st, err := apiclient.UnwrapObject[model.Student](raw, "student")
	if err != nil {
		return nil, err
	}
	return &st, nil
}
