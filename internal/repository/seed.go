package repository

import (
	"context"
	"fmt"

	"github.com/nsda/portal/internal/model"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

// Seeded account emails.
const (
	SeedSuperAdminEmail = "superadmin@nsda.dev"
	SeedAdminEmail      = "admin@nsda.dev"
	SeedStudentEmail    = "student@nsda.dev"
)

// Seed fills empty repositories with one account per role and sample
// content. hash turns the seed password into a stored hash.
func Seed(ctx context.Context, repos *Repositories, hash func(string) (string, error)) error {
	pw, err := hash(SeedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	accounts := []model.User{
		{Name: "Super Admin", Email: SeedSuperAdminEmail, Role: model.RoleSuperAdmin},
		{Name: "Portal Admin", Email: SeedAdminEmail, Role: model.RoleAdmin},
		{Name: "Sample Student", Email: SeedStudentEmail, Role: model.RoleStudent, Track: "Backend"},
	}
	for _, u := range accounts {
		if _, err := repos.Users.Create(ctx, u, pw); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	repos.Tasks.Create(ctx, model.CreateTaskRequest{
		Title:         "Go fundamentals",
		Description:   "Work through the Go tour and push your exercises to a repository.",
		Deadline:      "2026-12-01",
		EstimatedTime: "6 hours",
		Resources: []model.TaskResource{
			{Title: "A Tour of Go", Link: "https://go.dev/tour", Category: "Go"},
			{Title: "Effective Go", Link: "https://go.dev/doc/effective_go", Category: "Go"},
		},
	})
	repos.Tasks.Create(ctx, model.CreateTaskRequest{
		Title:         "Containerize a service",
		Description:   "Write a Dockerfile for your HTTP service and document how to run it.",
		Deadline:      "2026-12-15",
		EstimatedTime: "3 hours",
		Resources: []model.TaskResource{
			{Title: "Docker get started", Link: "https://docs.docker.com/get-started/", Category: "Docker"},
		},
	})

	repos.Announcements.Create(ctx, model.AnnouncementRequest{
		Title:    "Welcome to the portal",
		Message:  "Check your dashboard for this week's tasks.",
		Category: model.CategoryInfo,
	})
	repos.Announcements.Create(ctx, model.AnnouncementRequest{
		Title:    "Submission deadline",
		Message:  "Go fundamentals is due on 1 December.",
		Category: model.CategoryUrgent,
	})

	for _, r := range []model.ResourceRequest{
		{Name: "Go by Example", Link: "https://gobyexample.com", Category: "Go"},
		{Name: "Docker docs", Link: "https://docs.docker.com", Category: "Docker"},
		{Name: "Pro Git", Link: "https://git-scm.com/book", Category: "Git"},
	} {
		repos.Resources.Create(ctx, r)
	}

	for _, s := range []model.StudentRequest{
		{Name: "Sample Student", Email: SeedStudentEmail, Track: "Backend"},
		{Name: "Grace Hopper", Email: "grace@nsda.dev", Track: "Backend", Status: model.StudentActive},
		{Name: "Alan Turing", Email: "alan@nsda.dev", Track: "Data", Status: model.StudentInactive},
	} {
		if _, err := repos.Students.Create(ctx, s); err != nil {
			return fmt.Errorf("seed student %s: %w", s.Email, err)
		}
	}
	return nil
}
