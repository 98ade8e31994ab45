package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/pathlight-lms/pathlight/internal/app"
	"github.com/pathlight-lms/pathlight/internal/platform/db"
	"github.com/pathlight-lms/pathlight/internal/progress"
	"github.com/pathlight-lms/pathlight/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	progressJobs := &jobs.ProgressJobs{
		Pool:    dbpool,
		Service: progress.NewService(progress.NewRepository(dbpool)),
		Logger:  logger,
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskProgressRecalc, Handler: progressJobs.HandleProgressRecalc},
			{Type: jobs.TaskStatsSweep, Handler: progressJobs.HandleStatsSweep},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 15m", Task: jobs.NewStatsSweepTask()},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
