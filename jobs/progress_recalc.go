package jobs

import (
	"context"
	"encoding/json"

	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/pathlight-lms/pathlight/internal/jobs"
	"github.com/pathlight-lms/pathlight/internal/progress"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ProgressJobs bundles the dependencies of progress aggregation handlers.
type ProgressJobs struct {
	Pool    *pgxpool.Pool
	Service *progress.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

func (j *ProgressJobs) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

// HandleProgressRecalc recomputes the stats row for one course.
func (j *ProgressJobs) HandleProgressRecalc(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track(TaskProgressRecalc)

	var payload ProgressRecalcPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	if payload.CourseID <= 0 {
		return tracker.End(asynq.SkipRetry)
	}
	if err := j.Service.RefreshStats(ctx, payload.CourseID); err != nil {
		if j.Logger != nil {
			j.Logger.Error("progress recalc", slog.Int64("course_id", payload.CourseID), slog.Any("error", err))
		}
		return tracker.End(err)
	}
	j.metrics().AddCoursesRefreshed(1)
	if j.Logger != nil {
		j.Logger.Info("progress stats refreshed", slog.Int64("course_id", payload.CourseID))
	}
	return tracker.End(nil)
}

// HandleStatsSweep recomputes stats for every course. Registered on a cron
// schedule so read models stay fresh even without mutation traffic.
func (j *ProgressJobs) HandleStatsSweep(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track(TaskStatsSweep)

	if j.Pool == nil {
		return tracker.End(nil)
	}
	rows, err := j.Pool.Query(ctx, `SELECT id FROM courses ORDER BY id`)
	if err != nil {
		return tracker.End(err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return tracker.End(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return tracker.End(err)
	}
	for _, id := range ids {
		if err := j.Service.RefreshStats(ctx, id); err != nil {
			if j.Logger != nil {
				j.Logger.Error("stats sweep", slog.Int64("course_id", id), slog.Any("error", err))
			}
			return tracker.End(err)
		}
	}
	j.metrics().AddCoursesRefreshed(len(ids))
	if j.Logger != nil {
		j.Logger.Info("stats sweep complete", slog.Int("courses", len(ids)))
	}
	return tracker.End(nil)
}
