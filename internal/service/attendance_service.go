package service

import (
	"context"
	"net/http"

	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/model"
)

// AttendanceService reads and records daily attendance.
type AttendanceService struct {
	api Requester
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(api Requester) *AttendanceService {
	return &AttendanceService{api: api}
}

// History lists the signed-in user's attendance, newest first.
func (s *AttendanceService) History(ctx context.Context) ([]model.AttendanceRecord, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/attendance/history", nil)
	if err != nil {
		return nil, err
	}
	return apiclient.UnwrapList[model.AttendanceRecord](raw, "history", "records")
}

// WeeklySummary returns the current week's totals for the signed-in user.
func (s *AttendanceService) WeeklySummary(ctx context.Context) (*model.WeeklySummary, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/attendance/summary/weekly", nil)
	if err != nil {
		return nil, err
	}
	sum, err := apiclient.UnwrapObject[model.WeeklySummary](raw, "summary")
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// Mark records the signed-in user as present today.
func (s *AttendanceService) Mark(ctx context.Context) (*model.AttendanceRecord, error) {
	body := map[string]model.AttendanceStatus{"status": model.AttendancePresent}
	raw, err := s.api.Request(ctx, http.MethodPost, "/attendance/mark", body)
	if err != nil || raw == nil {
		return nil, err
	}
	rec, err := apiclient.UnwrapObject[model.AttendanceRecord](raw, "record")
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// AdminAll lists every user's attendance (admin).
func (s *AttendanceService) AdminAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/attendance/admin/all", nil)
	if err != nil {
		return nil, err
	}
	return apiclient.UnwrapList[model.AttendanceRecord](raw, "records")
}
