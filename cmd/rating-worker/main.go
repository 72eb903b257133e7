// Command rating-worker keeps team ratings current by applying completed
// match results on a schedule.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/cache"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/config"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/database"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/health"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/logger"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/metrics"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ml"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ratings"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/repository"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/scheduler"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/service"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const serviceName = "rating-worker"

var (
	configFile string
	runOnce    bool
)

var rootCmd = &cobra.Command{
	Use:          serviceName,
	Short:        "Apply completed match results to team ratings",
	Version:      fmt.Sprintf("%s (%s)", Version, GitCommit),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single sync pass and exit")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"schedule":    cfg.Ratings.SyncSchedule,
		"version":     Version,
	}).Info("Rating worker starting")

	if err := tracing.Initialize(cfg.Tracing, Version, appLog); err != nil {
		return err
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	store := ratings.NewStore(repos.Ratings, appLog)
	ingestion := service.NewResultIngestionService(store, repos.Match, repos.Team, repos.HeadToHead, cfg.Ratings.BatchSize, appLog)
	if err := ingestion.LoadState(ctx); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(ingestion, appLog)
	if runOnce {
		return sched.RunSync(ctx)
	}

	checks := map[string]health.Checker{
		"database": health.CheckFunc(db.HealthCheck),
	}
	if cfg.Redis.Address != "" {
		resultCache, err := cache.NewRedisGenerationCache(ctx, &cfg.Redis)
		if err != nil {
			appLog.WithError(err).Warn("Redis unreachable at startup")
		} else {
			defer resultCache.Close()
			checks["redis"] = health.CheckFunc(resultCache.Ping)
		}
	}
	if cfg.MLService.Enabled && cfg.MLService.GRPCAddress != "" {
		probe, err := ml.NewHealthProbe(cfg.MLService.GRPCAddress, "", 2*time.Second)
		if err != nil {
			appLog.WithError(err).Warn("ML health probe unavailable")
		} else {
			defer probe.Close()
			checks["ml_service"] = probe
		}
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: serviceName,
		Version:     Version,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		Checks:      checks,
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metricsServer := startMetricsServer(cfg.Metrics, appLog)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	if err := sched.ScheduleRatingSync(cfg.Ratings.SyncSchedule); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)
	appLog.WithField("next_run", sched.NextRun()).Info("Rating worker running")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	healthServer.SetReady(false)

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		appLog.WithError(err).Error("Scheduler did not stop cleanly")
	}

	appLog.Info("Rating worker shut down")
	return nil
}

func startMetricsServer(cfg config.MetricsConfig, appLog *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.Handler())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLog.WithField("port", cfg.Port).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()
	return server
}
