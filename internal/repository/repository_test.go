package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nsda/portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainHash(s string) (string, error) { return "hash:" + s, nil }

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u, err := r.Create(ctx, model.User{Name: "Ada", Email: " Ada@Example.com ", Role: model.RoleStudent}, "h1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)

	_, err = r.Create(ctx, model.User{Name: "Other", Email: "ADA@example.com"}, "h2")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, hash, err := r.GetByEmail(ctx, "ada@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.Equal(t, "h1", hash)

	require.NoError(t, r.UpdatePassword(ctx, u.ID, "h3"))
	hash, err = r.PasswordHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "h3", hash)

	p, err := r.UpdateProfile(ctx, u.ID, model.ProfileUpdateRequest{School: "NSDA"})
	require.NoError(t, err)
	assert.Equal(t, "NSDA", p.School)
	assert.Equal(t, "Ada", p.User.Name)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewTaskRepository()
	ada := model.User{ID: "s1", Name: "Ada"}
	bob := model.User{ID: "s2", Name: "Bob"}

	task := r.Create(ctx, model.CreateTaskRequest{
		Title: "Go", Description: "d", Deadline: "2026-12-01",
		Resources: []model.TaskResource{{Title: "Tour", Link: "https://go.dev/tour"}},
	})
	require.Len(t, task.Resources, 1)
	rid := task.Resources[0].ID
	assert.NotEmpty(t, rid)

	tasks := r.ForStudent(ctx, ada.ID)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.TaskToDo, tasks[0].Status)

	_, err := r.Grade(ctx, task.ID, ada.ID, model.GradeRequest{FinalGrade: "A"})
	assert.ErrorIs(t, err, ErrNotSubmitted)

	sub, err := r.Submit(ctx, task.ID, ada, model.SubmitTaskRequest{SubmissionLink: "https://github.com/ada/go"})
	require.NoError(t, err)
	assert.Equal(t, model.GradePending, sub.Grade)

	subs, err := r.Submissions(ctx, task.ID, []model.User{ada, bob})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	statuses := map[string]model.TaskStatus{}
	for _, s := range subs {
		statuses[s.StudentID] = s.Status()
	}
	assert.Equal(t, model.TaskSubmitted, statuses[ada.ID])
	assert.Equal(t, model.TaskToDo, statuses[bob.ID])

	list := r.List(ctx)
	assert.Equal(t, 1, list[0].SubmissionCount)
	assert.Equal(t, 1, list[0].PendingCount)

	graded, err := r.Grade(ctx, task.ID, ada.ID, model.GradeRequest{FinalGrade: "A", AdminFeedback: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskGraded, graded.Status())
	assert.Equal(t, model.TaskGraded, r.ForStudent(ctx, ada.ID)[0].Status)
	assert.Equal(t, 0, r.List(ctx)[0].PendingCount)

	require.NoError(t, r.MarkRead(ctx, task.ID, rid, ada.ID, true))
	require.NoError(t, r.MarkRead(ctx, task.ID, rid, ada.ID, true))
	got, err := r.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{ada.ID}, got.Resources[0].ReadBy)

	require.NoError(t, r.MarkRead(ctx, task.ID, rid, ada.ID, false))
	got, _ = r.Get(ctx, task.ID)
	assert.Empty(t, got.Resources[0].ReadBy)

	assert.ErrorIs(t, r.MarkRead(ctx, task.ID, "nope", ada.ID, true), ErrNotFound)
}

func TestListsAreNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewAnnouncementRepository()
	first := r.Create(ctx, model.AnnouncementRequest{Title: "one", Message: "m"})
	second := r.Create(ctx, model.AnnouncementRequest{Title: "two", Message: "m", Category: "URGENT"})

	list := r.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, model.CategoryUrgent, list[0].Category)
	assert.Equal(t, model.CategoryNormal, list[1].Category)

	require.NoError(t, r.Delete(ctx, first.ID))
	assert.ErrorIs(t, r.Delete(ctx, first.ID), ErrNotFound)
	assert.Len(t, r.List(ctx), 1)
}

func TestAttendance(t *testing.T) {
	ctx := context.Background()
	r := NewAttendanceRepository()
	u := model.User{ID: "u1", Name: "Ada"}
	wed := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	_, err := r.Mark(ctx, u, wed.AddDate(0, 0, -1))
	require.NoError(t, err)
	rec, err := r.Mark(ctx, u, wed)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", rec.Date)

	_, err = r.Mark(ctx, u, wed.Add(3*time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyMarked)

	hist := r.History(ctx, u.ID)
	require.Len(t, hist, 2)
	assert.Equal(t, "2026-10-14", hist[0].Date)

	s := r.WeeklySummary(ctx, u.ID, wed)
	assert.Equal(t, "2026-10-12", s.WeekStart)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Present)
	assert.Equal(t, 1, s.Absent)
	assert.InDelta(t, 66.7, s.Percentage, 0.001)

	assert.Len(t, r.All(ctx), 2)
}

func TestStudentRoster(t *testing.T) {
	ctx := context.Background()
	r := NewStudentRepository()

	s, err := r.Create(ctx, model.StudentRequest{Name: "Ada", Email: "ada@x.io"})
	require.NoError(t, err)
	assert.Equal(t, model.StudentActive, s.Status)

	_, err = r.Create(ctx, model.StudentRequest{Name: "Ada 2", Email: "ADA@x.io"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	s, err = r.SetStatus(ctx, s.ID, model.StudentBlacklisted)
	require.NoError(t, err)
	s, err = r.Update(ctx, s.ID, model.StudentRequest{Name: "Ada L", Email: "ada@x.io"})
	require.NoError(t, err)
	assert.Equal(t, model.StudentBlacklisted, s.Status, "empty status keeps the current one")

	s, err = r.Assign(ctx, s.ID, model.AssignStudentRequest{Track: "Backend", Mentor: "Rob"})
	require.NoError(t, err)
	assert.Equal(t, "Rob", s.Mentor)

	require.NoError(t, r.Delete(ctx, s.ID))
	assert.Empty(t, r.List(ctx))
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repos := New()
	require.NoError(t, Seed(ctx, repos, plainHash))

	u, hash, err := repos.Users.GetByEmail(ctx, SeedSuperAdminEmail)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, u.Role)
	assert.Equal(t, "hash:"+SeedPassword, hash)
	assert.Len(t, repos.Users.ListByRole(ctx, model.RoleStudent), 1)
	assert.NotEmpty(t, repos.Tasks.List(ctx))
	assert.NotEmpty(t, repos.Announcements.List(ctx))
	assert.NotEmpty(t, repos.Resources.List(ctx))
	assert.Len(t, repos.Students.List(ctx), 3)
}
