package jobs

import (
	"chip8arcade/config"
	"chip8arcade/internal/database"
	"chip8arcade/internal/services"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAllJobs_Disabled(t *testing.T) {
	scheduler := services.NewSchedulerService()

	err := RegisterAllJobs(scheduler, config.Config{SchedulerEnabled: false}, services.Service{})

	require.NoError(t, err)
	assert.Empty(t, scheduler.Status().Jobs)
}

func TestRegisterAllJobs_Enabled(t *testing.T) {
	scheduler := services.NewSchedulerService()
	sweeper := services.NewArtifactSweepService(database.DB{}, nil, nil, time.Hour)

	err := RegisterAllJobs(
		scheduler,
		config.Config{SchedulerEnabled: true},
		services.Service{ArtifactSweep: sweeper},
	)

	require.NoError(t, err)
	assert.Len(t, scheduler.Status().Jobs, 1)
}

func TestArtifactSweepJob_Metadata(t *testing.T) {
	job := NewArtifactSweepJob(nil, Hourly)

	assert.Equal(t, "OrphanedArtifactSweep", job.Name())
	assert.Equal(t, Hourly, job.Schedule())
}
