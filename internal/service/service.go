// Package service holds the typed wrappers the portal's views and commands
// use to talk to the backend. Mutating calls validate their payload locally
// before anything is sent.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nsda/portal/internal/validator"
)

// Requester sends one JSON request. *apiclient.Client satisfies it.
type Requester interface {
	Request(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// Services bundles every domain service over one Requester.
type Services struct {
	Auth          *AuthService
	Tasks         *TaskService
	Announcements *AnnouncementService
	Attendance    *AttendanceService
	Resources     *ResourceService
	Profile       *ProfileService
	Students      *StudentService
}

// New wires all services against api. session is used by AuthService.
func New(api Requester, session SessionWriter) *Services {
	return &Services{
		Auth:          NewAuthService(api, session),
		Tasks:         NewTaskService(api),
		Announcements: NewAnnouncementService(api),
		Attendance:    NewAttendanceService(api),
		Resources:     NewResourceService(api),
		Profile:       NewProfileService(api),
		Students:      NewStudentService(api),
	}
}

// validate runs local form validation and returns a *validator.ValidationError.
func validate(form any) error {
	return validator.Struct(form)
}

// pathf formats a path, escaping every argument as a single segment.
func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}
