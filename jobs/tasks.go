package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskProgressRecalc recomputes the aggregated stats of one course.
	TaskProgressRecalc = "progress:recalc"
	// TaskStatsSweep recomputes stats for every course.
	TaskStatsSweep = "progress:sweep"
)

// ProgressRecalcPayload identifies the course to recompute.
type ProgressRecalcPayload struct {
	CourseID int64 `json:"course_id"`
}

// NewProgressRecalcTask constructs an Asynq task for one course.
func NewProgressRecalcTask(payload ProgressRecalcPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProgressRecalc, data), nil
}

// NewStatsSweepTask constructs the full-sweep task. It carries no payload.
func NewStatsSweepTask() *asynq.Task {
	return asynq.NewTask(TaskStatsSweep, nil)
}
