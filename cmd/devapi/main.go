package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsda/portal/internal/auth"
	"github.com/nsda/portal/internal/config"
	"github.com/nsda/portal/internal/logger"
	"github.com/nsda/portal/internal/middleware"
	"github.com/nsda/portal/internal/repository"
	"github.com/nsda/portal/internal/router"
	"github.com/nsda/portal/internal/validator"
	"github.com/nsda/portal/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting portal development backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Seed Repositories ─────────────────────────────────────────────
	authService := auth.NewService(cfg)
	repos := repository.New()
	if err := repository.Seed(ctx, repos, authService.HashPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed data")
	}
	log.Info().
		Strs("accounts", []string{repository.SeedSuperAdminEmail, repository.SeedAdminEmail, repository.SeedStudentEmail}).
		Str("password", repository.SeedPassword).
		Msg("Seeded development accounts")

	// ─── Start Background Workers ─────────────────────────────────────
	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerMinute, time.Minute)
	sweeper := worker.NewSweepWorker(authLimiter, time.Minute, 3*time.Minute, log)
	go sweeper.Start(ctx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, router.NewHandlers(authService, repos, log), authLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
