package e2e

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/auth"
	"github.com/nsda/portal/internal/authz"
	"github.com/nsda/portal/internal/config"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/router"
	"github.com/nsda/portal/internal/service"
	"github.com/nsda/portal/internal/session"
	"github.com/nsda/portal/internal/storage"
	"github.com/nsda/portal/internal/validator"
	"github.com/nsda/portal/internal/view"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	studentEmail = "e2e_student@nsda.dev"
	studentPass  = "password123"
	studentName  = "E2E Student"
)

var baseURL string

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()

	cfg := &config.Config{GinMode: gin.TestMode, JWTSecret: "e2e-secret", JWTExpiry: time.Hour, BcryptCost: 4}
	authSvc := auth.NewService(cfg)
	repos := repository.New()
	if err := repository.Seed(context.Background(), repos, authSvc.HashPassword); err != nil {
		panic(err)
	}
	srv := httptest.NewServer(router.SetupRouter(authSvc, router.NewHandlers(authSvc, repos, zerolog.Nop()), nil, cfg))
	baseURL = srv.URL + "/api"

	code := m.Run()
	srv.Close()
	os.Exit(code)
}

// portal is one signed-in client: its own session, fetch client and gate.
type portal struct {
	store   *session.Store
	svc     *service.Services
	gate    *authz.Gate
	denials []string
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	p := &portal{}
	p.store = session.NewStore(storage.NewMemoryStore(), zerolog.Nop())
	store := p.store
	api := apiclient.New(baseURL, p.store, apiclient.WithUnauthorizedHandler(func(ctx context.Context) {
		_ = store.Logout(ctx)
	}))
	p.svc = service.New(api, p.store)
	p.gate = authz.NewGate(p.store, func(msg string) { p.denials = append(p.denials, msg) }, zerolog.Nop())
	return p
}

func TestE2EFlow(t *testing.T) {
	ctx := context.Background()
	student := newPortal(t)
	admin := newPortal(t)
	var (
		studentUser *model.User
		taskID      string
	)

	t.Run("Signup", func(t *testing.T) {
		err := student.svc.Auth.Register(ctx, model.SignupForm{Name: studentName, Email: studentEmail, Password: studentPass, ConfirmPassword: "different"})
		var verr *validator.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Passwords do not match.", verr.Fields["confirmPassword"])

		err = student.svc.Auth.Register(ctx, model.SignupForm{Name: studentName, Email: studentEmail, Password: studentPass, ConfirmPassword: studentPass})
		require.NoError(t, err)
		assert.False(t, student.store.IsAuthenticated(), "signup does not sign in")
	})

	t.Run("StudentLogin", func(t *testing.T) {
		u, err := student.svc.Auth.Login(ctx, studentEmail, studentPass)
		require.NoError(t, err)
		studentUser = u
		assert.Equal(t, model.RoleStudent, u.Role)
		assert.Equal(t, authz.PathDashboard, authz.LandingFor(u.Role))
		assert.True(t, student.store.IsAuthenticated())
	})

	t.Run("StudentDeniedAdmin", func(t *testing.T) {
		rendered := false
		d, err := student.gate.EnterPath("/admin/students", func() error { rendered = true; return nil })
		require.NoError(t, err)
		assert.Equal(t, authz.WrongRole, d.State)
		assert.Equal(t, authz.PathLanding, d.Redirect)
		assert.False(t, rendered)
		assert.Equal(t, []string{authz.DenialMessage}, student.denials)

		_, err = student.svc.Students.List(ctx)
		assert.True(t, apiclient.IsStatus(err, http.StatusForbidden))
	})

	t.Run("StudentSubmits", func(t *testing.T) {
		board := view.NewTaskBoard(student.svc.Tasks, studentUser.ID, zerolog.Nop())
		defer board.Dispose()
		require.True(t, board.Mount(ctx))
		snap := board.Snapshot()
		require.Equal(t, view.Ready, snap.State)
		require.NotEmpty(t, snap.Items)
		taskID = snap.Items[0].ID

		m, err := board.Submit(ctx, taskID, model.SubmitTaskRequest{SubmissionLink: "https://github.com/e2e/go"})
		require.NoError(t, err)
		assert.Equal(t, view.Committed, m.Status)
		got, _ := board.Find(taskID)
		assert.Equal(t, model.TaskSubmitted, got.Status)
		assert.NotEmpty(t, got.Submission.ID, "server submission replaces the optimistic one")
	})

	t.Run("AdminGrades", func(t *testing.T) {
		u, err := admin.svc.Auth.Login(ctx, repository.SeedAdminEmail, repository.SeedPassword)
		require.NoError(t, err)
		assert.Equal(t, authz.PathAdmin, authz.LandingFor(u.Role))

		queue := view.NewSubmissionQueue(admin.svc.Tasks, taskID, zerolog.Nop())
		defer queue.Dispose()
		require.True(t, queue.Mount(ctx))
		require.Equal(t, 1, queue.PendingCount())

		m, err := queue.Grade(ctx, studentUser.ID, model.GradeRequest{FinalGrade: "A", AdminFeedback: "Well done"})
		require.NoError(t, err)
		assert.Equal(t, view.Committed, m.Status)
		assert.Equal(t, 0, queue.PendingCount())
	})

	t.Run("StudentSeesGraded", func(t *testing.T) {
		board := view.NewTaskBoard(student.svc.Tasks, studentUser.ID, zerolog.Nop())
		defer board.Dispose()
		require.True(t, board.SetFilter(ctx, service.FilterGraded))
		items := board.Items()
		require.Len(t, items, 1)
		assert.Equal(t, taskID, items[0].ID)
		assert.Equal(t, model.TaskGraded, items[0].Status)
		assert.Equal(t, "Well done", items[0].Submission.Feedback)
	})

	t.Run("AdminDeletesAnnouncement", func(t *testing.T) {
		feed := view.NewAnnouncementFeed(admin.svc.Announcements, zerolog.Nop())
		defer feed.Dispose()
		require.True(t, feed.Mount(ctx))
		before := feed.Items()
		require.NotEmpty(t, before)
		id := before[0].ID

		m, err := feed.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, view.Committed, m.Status)
		_, found := feed.Find(id)
		assert.False(t, found)
		assert.Len(t, feed.Items(), len(before)-1)
	})

	t.Run("DeleteFailureRollsBack", func(t *testing.T) {
		feed := view.NewAnnouncementFeed(admin.svc.Announcements, zerolog.Nop())
		defer feed.Dispose()
		require.True(t, feed.Mount(ctx))
		items := feed.Items()
		require.NotEmpty(t, items)
		target := items[0]

		require.NoError(t, admin.svc.Announcements.Delete(ctx, target.ID))

		m, err := feed.Delete(ctx, target.ID)
		require.Error(t, err)
		assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))
		assert.Equal(t, view.RolledBack, m.Status)
		restored, found := feed.Find(target.ID)
		require.True(t, found)
		assert.Equal(t, target, restored)
		assert.Equal(t, target.ID, feed.Items()[0].ID, "restored at its original position")
	})

	t.Run("AttendanceOncePerDay", func(t *testing.T) {
		board := view.NewAttendanceBoard(student.svc.Attendance, false, zerolog.Nop())
		defer board.Dispose()
		require.True(t, board.Mount(ctx))

		now := time.Now()
		_, err := board.Mark(ctx, now)
		require.NoError(t, err)
		assert.True(t, board.TodayMarked(now))

		_, err = board.Mark(ctx, now)
		assert.ErrorIs(t, err, view.ErrAlreadyMarked)

		_, err = student.svc.Attendance.Mark(ctx)
		assert.True(t, apiclient.IsStatus(err, http.StatusConflict))
	})

	t.Run("LogoutDropsAccess", func(t *testing.T) {
		require.NoError(t, student.svc.Auth.Logout(ctx))
		d, err := student.gate.EnterPath("/dashboard/tasks", func() error { return errors.New("must not render") })
		require.NoError(t, err)
		assert.Equal(t, authz.Unauthenticated, d.State)
		assert.Equal(t, authz.PathLogin, d.Redirect)

		_, err = student.svc.Tasks.StudentTasks(ctx, service.FilterAll)
		assert.True(t, apiclient.IsStatus(err, http.StatusUnauthorized))
	})
}
