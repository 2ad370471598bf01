package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nsda/portal/internal/auth"
	"github.com/nsda/portal/internal/config"
	"github.com/nsda/portal/internal/handler"
	"github.com/nsda/portal/internal/middleware"
	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/response"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Tasks         *handler.TaskHandler
	Announcements *handler.AnnouncementHandler
	Resources     *handler.ResourceHandler
	Attendance    *handler.AttendanceHandler
	Profile       *handler.ProfileHandler
	Students      *handler.StudentHandler
}

// NewHandlers builds every handler over repos.
func NewHandlers(authService *auth.Service, repos *repository.Repositories, log zerolog.Logger) *Handlers {
	return &Handlers{
		Auth:          handler.NewAuthHandler(authService, repos.Users, log),
		Tasks:         handler.NewTaskHandler(repos.Tasks, repos.Users),
		Announcements: handler.NewAnnouncementHandler(repos.Announcements),
		Resources:     handler.NewResourceHandler(repos.Resources),
		Attendance:    handler.NewAttendanceHandler(repos.Attendance, repos.Users),
		Profile:       handler.NewProfileHandler(repos.Users),
		Students:      handler.NewStudentHandler(repos.Students),
	}
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// Every route lives under /api. authLimiter may be nil to disable rate
// limiting of /api/auth.
func SetupRouter(
	authService *auth.Service,
	handlers *Handlers,
	authLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	requireAuth := middleware.RequireAuth(authService)
	requireAdmin := middleware.RequireRole(model.RoleAdmin)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authGroup := api.Group("/auth")
	if authLimiter != nil {
		authGroup.Use(authLimiter.Middleware())
	}
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)

		authGroup.GET("/me", requireAuth, handlers.Auth.Me)
		authGroup.PATCH("/password", requireAuth, handlers.Auth.ChangePassword)
	}

	// ─── 2. Signed-in Group (any role) ─────────────────────────────────
	member := api.Group("")
	member.Use(requireAuth)
	{
		member.GET("/tasks/student/:filter", handlers.Tasks.StudentTasks)
		member.POST("/tasks/:id/submit", handlers.Tasks.Submit)
		member.POST("/tasks/:id/resources/:rid/read", handlers.Tasks.MarkRead)
		member.DELETE("/tasks/:id/resources/:rid/read", handlers.Tasks.UnmarkRead)

		member.GET("/announcements", handlers.Announcements.List)
		member.GET("/resources", handlers.Resources.List)

		member.GET("/attendance/history", handlers.Attendance.History)
		member.GET("/attendance/summary/weekly", handlers.Attendance.WeeklySummary)
		member.POST("/attendance/mark", handlers.Attendance.Mark)

		member.GET("/profile/me", handlers.Profile.Get)
		member.PUT("/profile/me", handlers.Profile.Update)
	}

	// ─── 3. Admin Group (admin or superadmin) ──────────────────────────
	admin := api.Group("")
	admin.Use(requireAuth, requireAdmin)
	{
		admin.GET("/tasks", handlers.Tasks.List)
		admin.POST("/tasks", handlers.Tasks.Create)
		admin.GET("/tasks/:id/submissions", handlers.Tasks.Submissions)
		admin.POST("/tasks/:id/grade/:studentId", handlers.Tasks.Grade)

		admin.POST("/announcements", handlers.Announcements.Create)
		admin.PUT("/announcements/:id", handlers.Announcements.Update)
		admin.DELETE("/announcements/:id", handlers.Announcements.Delete)

		admin.POST("/resources", handlers.Resources.Create)
		admin.DELETE("/resources/:id", handlers.Resources.Delete)

		admin.GET("/attendance/admin/all", handlers.Attendance.All)

		admin.GET("/students", handlers.Students.List)
		admin.POST("/students", handlers.Students.Create)
		admin.PUT("/students/:id", handlers.Students.Update)
		admin.PATCH("/students/:id/status", handlers.Students.SetStatus)
		admin.PATCH("/students/:id/assign", handlers.Students.Assign)
		admin.DELETE("/students/:id", handlers.Students.Delete)
	}

	return router
}
