package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-plans/app/repository"
	"github.com/vibast-solutions/ms-go-plans/app/service"
	"github.com/vibast-solutions/ms-go-plans/config"
)

var syncWorker bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy payment provider plans into the local mirror",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"sync_plans",
			syncWorker,
			func(cfg *config.Config) time.Duration { return cfg.Jobs.PlanSyncInterval },
			func(s *service.PlanSyncService, ctx context.Context) error {
				return s.RunSyncBatch(ctx)
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncWorker, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	worker bool,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.PlanSyncService, ctx context.Context) error,
) {
	cfg, syncService, cleanup := mustCreateSyncService()
	defer cleanup()

	if worker {
		runWorker(name, intervalResolver(cfg), syncService, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(syncService, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	syncService *service.PlanSyncService,
	fn func(s *service.PlanSyncService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(syncService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(syncService, ctx) })
		}
	}
}

func mustCreateSyncService() (*config.Config, *service.PlanSyncService, func()) {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg)

	syncService := service.NewPlanSyncService(newPlanClient(cfg, nil), repository.NewPlanRepository(db))

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, syncService, cleanup
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
