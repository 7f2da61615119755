package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hasheddev/studytrack/internal/broadcast"
	"github.com/hasheddev/studytrack/internal/handler"
	"github.com/hasheddev/studytrack/internal/repository/sqlite"
	"github.com/hasheddev/studytrack/internal/service"
	"github.com/hasheddev/studytrack/internal/timer"
	"github.com/joho/godotenv"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	// Optional .env for local development; a missing file is fine.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "studytrack.db")

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One timer per process; it outlives any client connection and is torn
	// down only on shutdown.
	studyTimer := timer.New()
	defer studyTimer.Close()

	changes := broadcast.New[struct{}]()
	subjectService := service.NewSubjectService(db.Subjects(), db.Tasks(), db.Sessions(), changes)
	taskService := service.NewTaskService(db.Tasks(), db.Subjects(), changes)
	sessionService := service.NewSessionService(db.Sessions(), studyTimer, changes)
	statsService := service.NewStatsService(db.Subjects(), db.Sessions(), changes)

	go statsService.Run(ctx)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, subjectService, taskService, sessionService, statsService, studyTimer)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.SecurityHeaders(handler.RequestLogger(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
