package jobs

import (
	"chip8arcade/config"
	"chip8arcade/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	artifactSweepJob := NewArtifactSweepJob(services.ArtifactSweep, Hourly)
	if err := schedulerService.AddJob(artifactSweepJob); err != nil {
		return log.Err("failed to register artifact sweep job", err)
	}
	log.Info("Registered artifact sweep job", "schedule", Hourly)

	return nil
}
