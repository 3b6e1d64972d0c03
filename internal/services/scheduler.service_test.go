package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name     string
	schedule Schedule
	err      error
	calls    int
}

func (j *stubJob) Name() string       { return j.name }
func (j *stubJob) Schedule() Schedule { return j.schedule }
func (j *stubJob) Execute(ctx context.Context) error {
	j.calls++
	return j.err
}

func TestSchedulerService_AddJob(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.AddJob(&stubJob{name: "sweep", schedule: Hourly}))

	status := scheduler.Status()
	assert.False(t, status.Running)
	require.Len(t, status.Jobs, 1)
	assert.Equal(t, "sweep", status.Jobs[0].Name)
	assert.Equal(t, "hourly", status.Jobs[0].Schedule)
	assert.Nil(t, status.Jobs[0].NextRun)
	assert.Nil(t, status.Jobs[0].LastRun)
}

func TestSchedulerService_RejectsUnknownSchedule(t *testing.T) {
	scheduler := NewSchedulerService()

	err := scheduler.AddJob(&stubJob{name: "odd", schedule: Schedule(42)})

	assert.Error(t, err)
	assert.Empty(t, scheduler.Status().Jobs)
}

func TestSchedulerService_RunRecordsOutcome(t *testing.T) {
	scheduler := NewSchedulerService()
	job := &stubJob{name: "sweep", schedule: Hourly, err: errors.New("disk full")}
	require.NoError(t, scheduler.AddJob(job))

	scheduler.run(scheduler.jobs[0])

	status := scheduler.Status().Jobs[0]
	assert.Equal(t, 1, job.calls)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, "disk full", status.LastError)

	job.err = nil
	scheduler.run(scheduler.jobs[0])
	assert.Empty(t, scheduler.Status().Jobs[0].LastError)
}

func TestSchedulerService_StartStop(t *testing.T) {
	scheduler := NewSchedulerService()
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	assert.False(t, scheduler.Status().Running, "scheduler without jobs stays idle")

	require.NoError(t, scheduler.AddJob(&stubJob{name: "daily", schedule: Daily}))
	require.NoError(t, scheduler.Start(ctx))

	status := scheduler.Status()
	assert.True(t, status.Running)
	assert.NotNil(t, status.Jobs[0].NextRun)

	require.NoError(t, scheduler.Stop(ctx))
	assert.False(t, scheduler.Status().Running)
	require.NoError(t, scheduler.Stop(ctx))
}

func TestSchedule_String(t *testing.T) {
	assert.Equal(t, "hourly", Hourly.String())
	assert.Equal(t, "daily", Daily.String())
	assert.Equal(t, "schedule(7)", Schedule(7).String())
}
