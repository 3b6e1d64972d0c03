package jobs

import (
	"chip8arcade/internal/services"
	"context"

	logger "github.com/Bparsons0904/goLogger"
)

type ArtifactSweepJob struct {
	sweeper  *services.ArtifactSweepService
	log      logger.Logger
	schedule services.Schedule
}

func NewArtifactSweepJob(
	sweeper *services.ArtifactSweepService,
	schedule services.Schedule,
) *ArtifactSweepJob {
	log := logger.New("artifactSweepJob")
	log.Info("Creating new artifact sweep job", "schedule", schedule)

	return &ArtifactSweepJob{
		sweeper:  sweeper,
		log:      log,
		schedule: schedule,
	}
}

func (j *ArtifactSweepJob) Name() string {
	return "OrphanedArtifactSweep"
}

func (j *ArtifactSweepJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	result, err := j.sweeper.Sweep(ctx)
	if err != nil {
		return log.Err("artifact sweep failed", err)
	}

	log.Info("Artifact sweep completed", "removed", result.Removed, "failed", result.Failed)
	return nil
}

func (j *ArtifactSweepJob) Schedule() services.Schedule {
	return j.schedule
}
