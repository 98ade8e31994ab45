package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/pathlight-lms/pathlight/internal/app"
	"github.com/pathlight-lms/pathlight/internal/auth"
	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/courses"
	"github.com/pathlight-lms/pathlight/internal/observability"
	"github.com/pathlight-lms/pathlight/internal/platform/cache"
	"github.com/pathlight-lms/pathlight/internal/platform/db"
	"github.com/pathlight-lms/pathlight/internal/progress"
	"github.com/pathlight-lms/pathlight/internal/quizzes"
	"github.com/pathlight-lms/pathlight/internal/tasks"
	"github.com/pathlight-lms/pathlight/internal/users"
	"github.com/pathlight-lms/pathlight/jobs"
)

// statsQueue adapts the jobs client to the progress handler's queue
// interface.
type statsQueue struct {
	client *jobs.Client
}

func (q statsQueue) EnqueueProgressRecalc(ctx context.Context, courseID int64) error {
	_, err := q.client.EnqueueProgressRecalc(ctx, jobs.ProgressRecalcPayload{CourseID: courseID})
	return err
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	// Authorization core: one immutable table, one resolver, shared by
	// every route group.
	authzMW := authz.Middleware{
		Table:    authz.DefaultTable(),
		Resolver: authz.NewResolver(authz.NewPGStore(dbpool)),
		Logger:   logger,
	}

	tokenStore := auth.NewRedisTokenStore(redisClient)
	authService := auth.NewService(auth.NewRepository(dbpool), tokenStore, cfg.JWTSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(logger, authService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(dbpool)), authzMW)
	coursesHandler := courses.NewHandler(logger, courses.NewService(courses.NewRepository(dbpool)), authzMW)
	quizzesHandler := quizzes.NewHandler(logger, quizzes.NewService(quizzes.NewRepository(dbpool)), authzMW)
	progressHandler := progress.NewHandler(logger, progress.NewService(progress.NewRepository(dbpool)), authzMW,
		statsQueue{client: jobClient})
	tasksHandler := tasks.NewHandler(logger, tasks.NewService(tasks.NewRepository(dbpool)), authzMW)
	jobHandler := jobs.NewHandler(jobClient, asynq.NewInspector(redisOpts), logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Authz:           authzMW,
		AuthHandler:     authHandler,
		UsersHandler:    usersHandler,
		CoursesHandler:  coursesHandler,
		QuizzesHandler:  quizzesHandler,
		ProgressHandler: progressHandler,
		TasksHandler:    tasksHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
