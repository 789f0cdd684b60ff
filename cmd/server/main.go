package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/api"
	"github.com/reelwatch/release-notifier/internal/config"
	"github.com/reelwatch/release-notifier/internal/db"
	"github.com/reelwatch/release-notifier/internal/dispatch"
	"github.com/reelwatch/release-notifier/internal/job"
	"github.com/reelwatch/release-notifier/internal/mailer"
	"github.com/reelwatch/release-notifier/internal/metrics"
	"github.com/reelwatch/release-notifier/internal/ratelimiter"
	"github.com/reelwatch/release-notifier/internal/release"
	"github.com/reelwatch/release-notifier/internal/repository"
	"github.com/reelwatch/release-notifier/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database (dispatch log) ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	matcher, err := release.NewDateMatcher(cfg.ReleaseTimezone, nil)
	if err != nil {
		logger.Fatal("failed to resolve release timezone", zap.Error(err))
	}
	logger.Info("release day boundary", zap.String("timezone", cfg.ReleaseTimezone))

	recordStore := store.NewHTTPStore(
		cfg.StoreBaseURL, cfg.StoreAPIKey,
		cfg.FollowCollection, cfg.UserCollection, cfg.MovieCollection,
		cfg.StoreTimeout,
	)
	mail := mailer.NewHTTPMailer(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom, cfg.MailTimeout)
	limiter := ratelimiter.New(cfg.SendRateLimit)
	dispatchLog := repository.NewPgDispatchLogRepository(pool)

	onSent, onFailed := m.DispatchHooks()
	dispatcher := dispatch.NewDispatcher(mail, limiter, cfg.ImageBaseURL, logger, dispatch.MetricHooks{
		OnSent:   onSent,
		OnFailed: onFailed,
	})

	releaseJob := job.New(
		cfg.CronSecret,
		matcher,
		recordStore,
		release.NewUserResolver(recordStore, logger),
		release.NewAggregator(logger),
		dispatcher,
		dispatchLog,
		cfg.DedupeSends,
		logger,
	)

	// ---- optional in-process scheduler ----
	// Context for background goroutines; cancelled on shutdown signal.
	schedCtx, cancelSched := context.WithCancel(ctx)
	defer cancelSched()

	if cfg.SchedulerEnabled {
		sched := job.NewScheduler(releaseJob, cfg.CronSecret, cfg.SchedulerInterval, logger)
		go sched.Run(schedCtx)
	}

	// ---- HTTP server ----
	router := api.NewRouter(releaseJob, recordStore, m, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop the scheduler; any in-flight run is bounded by its own sends.
	cancelSched()

	logger.Info("server stopped cleanly")
}
