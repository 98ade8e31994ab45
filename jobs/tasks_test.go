package jobs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressRecalcTask(t *testing.T) {
	task, err := NewProgressRecalcTask(ProgressRecalcPayload{CourseID: 42})
	require.NoError(t, err)
	assert.Equal(t, TaskProgressRecalc, task.Type())

	var payload ProgressRecalcPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, int64(42), payload.CourseID)
}

func TestNewStatsSweepTask(t *testing.T) {
	task := NewStatsSweepTask()
	assert.Equal(t, TaskStatsSweep, task.Type())
	assert.Empty(t, task.Payload())
}
