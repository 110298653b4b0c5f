package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portalhq/portal/internal/activity"
	"github.com/portalhq/portal/internal/api"
	"github.com/portalhq/portal/internal/attachment"
	"github.com/portalhq/portal/internal/auth"
	"github.com/portalhq/portal/internal/comment"
	"github.com/portalhq/portal/internal/config"
	"github.com/portalhq/portal/internal/database"
	"github.com/portalhq/portal/internal/mention"
	"github.com/portalhq/portal/internal/notification"
	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/task"
	"github.com/portalhq/portal/internal/team"
	"github.com/portalhq/portal/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pool := db.Pool()

	userRepo := user.NewRepository(pool)
	teamRepo := team.NewRepository(pool)
	taskRepo := task.NewRepository(pool)
	commentRepo := comment.NewRepository(pool)
	notificationRepo := notification.NewRepository(pool)
	activityRepo := activity.NewRepository(pool)
	attachmentRepo := attachment.NewRepository(pool)
	perms := perm.NewStore(pool)

	fileStore, err := attachment.NewDiskStore(cfg.UploadDir)
	if err != nil {
		slog.Error("failed to prepare upload directory", "error", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}

	mailer := notification.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	dispatcher := notification.NewDispatcher(mailer, time.Duration(cfg.BatchWindowSeconds)*time.Second)

	authService := auth.NewService(userRepo, cfg.BcryptCost)
	notificationService := notification.NewService(notificationRepo, userRepo, dispatcher)
	teamService := team.NewService(pool, teamRepo, perms, userRepo)
	taskService := task.NewService(pool, taskRepo, teamRepo, userRepo, perms, activityRepo, notificationService)
	resolver := mention.NewResolver(userRepo, teamRepo)
	commentService := comment.NewService(commentRepo, taskRepo, userRepo, perms, resolver, activityRepo, notificationService)
	attachmentService := attachment.NewService(attachmentRepo, fileStore, taskRepo, commentRepo, perms, activityRepo)

	router := api.NewRouter(api.RouterDeps{
		Auth:          authService,
		Teams:         teamService,
		Tasks:         taskService,
		Comments:      commentService,
		Notifications: notificationService,
		Attachments:   attachmentService,
		DBPinger:      db,
		Version:       cfg.Version,
	})

	sweepDone := startSweep(dispatcher, cfg.SweepIntervalSeconds)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting portal server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	close(sweepDone)

	slog.Info("server stopped gracefully")
}

// startSweep periodically flushes expired notification batching windows so
// batch email goes out even when no new notification arrives for a recipient.
func startSweep(dispatcher *notification.Dispatcher, intervalSeconds int) chan struct{} {
	done := make(chan struct{})
	if intervalSeconds <= 0 {
		return done
	}

	go func() {
		ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := dispatcher.FlushExpired(); err != nil {
					slog.Error("failed to flush notification batches", "error", err)
				}
			case <-done:
				return
			}
		}
	}()

	return done
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
