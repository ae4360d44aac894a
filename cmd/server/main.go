package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/visitor-intake-api/internal/auth"
	"github.com/gdg-garage/visitor-intake-api/internal/config"
	"github.com/gdg-garage/visitor-intake-api/internal/database"
	"github.com/gdg-garage/visitor-intake-api/internal/handlers"
	"github.com/gdg-garage/visitor-intake-api/internal/intake"
	"github.com/gdg-garage/visitor-intake-api/internal/logging"
	"github.com/gdg-garage/visitor-intake-api/internal/notifier"
	"github.com/gdg-garage/visitor-intake-api/internal/observability/metrics"
	"github.com/gdg-garage/visitor-intake-api/internal/visits"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	loc, err := cfg.Location()
	if err != nil {
		logger.WithError(err).Warn("Falling back to UTC for visit times")
	}

	// Connect to Database
	db := database.Connect(cfg)

	// Security desk notifications are optional.
	var visitNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := notifier.NewDiscordSession(cfg.DiscordBotToken)
		if err != nil {
			logger.WithError(err).Warn("Discord notifier not initialized")
		} else {
			visitNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordSecurityChannelID, loc)
		}
	}

	// Initialize Handlers
	store := intake.NewStore()
	repo := visits.NewRepository(db)
	authHandler := auth.NewAuthHandler(cfg, db, logger)
	h := handlers.Handlers{
		Auth: authHandler,
		Drafts: handlers.NewDraftHandler(
			store,
			intake.NewValidator(loc),
			repo,
			db,
			visitNotifier,
			authHandler,
			metrics.NewIntakeMetrics(nil),
			logger,
		),
		Visits:  handlers.NewVisitHandler(repo, authHandler),
		APIKeys: handlers.NewAPIKeyHandler(db, authHandler),
	}

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, logger, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pruneDrafts(ctx, store, cfg.DraftTTL, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}

// pruneDrafts drops drafts nobody touched for ttl.
func pruneDrafts(ctx context.Context, store *intake.Store, ttl time.Duration, logger logrus.FieldLogger) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := store.Prune(now.Add(-ttl)); n > 0 {
				logger.WithField("count", n).Info("Pruned idle drafts")
			}
		}
	}
}
