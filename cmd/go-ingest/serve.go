package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-ingest/internal/application/controller"
	"go-ingest/internal/application/middleware"
	"go-ingest/internal/application/processor"
	"go-ingest/internal/application/schedule"
	"go-ingest/pkg/log"
	"go-ingest/pkg/msg"
)

func getServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Runs the HTTP API, the ingestion schedule and the SQS worker",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := getConfig()
	log.Info(msg.GetMessage("app.start"))

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// Init Routes
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupRequestLogger(e)
	api := e.Group(cfg.ContextPath)

	controller.NewHealthController(api, a.health).InitHealthRoutes()
	controller.NewIngestController(api, a.pipeline).InitIngestRoutes()
	controller.NewTableController(api, a.tables).InitTableRoutes()
	controller.NewMetricsController(api).InitMetricsRoutes()

	// Init Schedule
	if cfg.Schedule.Enabled {
		scheduler := schedule.NewIngestScheduler(a.pipeline, a.redis, schedule.IngestSchedulerConfig{
			CronExpression: cfg.Schedule.Cron,
			LockTTL:        cfg.Schedule.LockTTL,
		})
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	// Init Worker
	if cfg.AWS.Enabled && cfg.AWS.RequestsQueue != "" {
		worker, err := a.newWorker(ctx, processor.NewIngestProcessor(a.pipeline))
		if err != nil {
			return err
		}
		a.queueState.RegisterWorker("ingest", worker)
		go worker.Start(ctx)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	log.Info(msg.GetMessage("app.started", cfg.Port), zap.String("context_path", cfg.ContextPath))

	select {
	case err := <-serverErr:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info(msg.GetMessage("app.stop"))
	return nil
}
