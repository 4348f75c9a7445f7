package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edututor/edututor-backend/internal/config"
	"github.com/edututor/edututor-backend/internal/handler"
	"github.com/edututor/edututor-backend/internal/logger"
	"github.com/edututor/edututor-backend/internal/quizgen"
	"github.com/edututor/edututor-backend/internal/router"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/edututor/edututor-backend/internal/validator"
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
		Str("quiz_service", cfg.QuizServiceURL).
		Msg("Starting EduTutor Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Initialize Session Store ──────────────────────────────────────
	// Every piece of application state lives here, in process memory.
	store := session.NewStore(cfg.SessionTTL, log)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	go store.StartSweeper(sweepCtx)

	// ─── Initialize Services ──────────────────────────────────────────
	quizClient := quizgen.NewClient(cfg.QuizServiceURL, cfg.QuizServiceTimeout, log)

	authService := service.NewAuthService(cfg, log)
	activityService := service.NewActivityService(log)
	quizService := service.NewQuizService(quizClient, activityService, log)
	profileService := service.NewProfileService(cfg, log)
	courseService := service.NewCourseService()

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Session:    handler.NewSessionHandler(authService, store),
		Auth:       handler.NewAuthHandler(authService),
		Profile:    handler.NewProfileHandler(profileService),
		Quiz:       handler.NewQuizHandler(quizService),
		Course:     handler.NewCourseHandler(courseService),
		Educator:   handler.NewEducatorHandler(activityService),
		ActivityWS: handler.NewActivityWSHandler(activityService, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, store, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
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

	// Stop the session sweeper. All session state is volatile; there is
	// nothing to flush.
	sweepCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
