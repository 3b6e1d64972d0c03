package services

import (
	"chip8arcade/config"
	"chip8arcade/internal/artifacts"
	"chip8arcade/internal/database"
	"chip8arcade/internal/models"
	"chip8arcade/internal/repositories"
	"context"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

// ArtifactSweepService removes stored ROM artifacts that no game references.
// Artifacts younger than the grace period are kept so uploads whose
// transaction has not committed yet are never touched.
// MinSweepGrace is the shortest grace period a sweeper will use.
const MinSweepGrace = time.Duration(config.MinArtifactSweepGraceMinutes) * time.Minute

type ArtifactSweepService struct {
	db    database.DB
	store artifacts.Store
	games repositories.GameRepository
	grace time.Duration
	now   func() time.Time
	log   logger.Logger
}

func NewArtifactSweepService(
	db database.DB,
	store artifacts.Store,
	games repositories.GameRepository,
	grace time.Duration,
) *ArtifactSweepService {
	log := logger.New("artifactSweepService")

	if grace < MinSweepGrace {
		log.Function("NewArtifactSweepService").
			Warn("sweep grace below minimum, clamping", "grace", grace, "minimum", MinSweepGrace)
		grace = MinSweepGrace
	}

	return &ArtifactSweepService{
		db:    db,
		store: store,
		games: games,
		grace: grace,
		now:   time.Now,
		log:   log,
	}
}

type SweepResult struct {
	Scanned int `json:"scanned"`
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}

func (s *ArtifactSweepService) Sweep(ctx context.Context) (SweepResult, error) {
	log := s.log.TraceFromContext(ctx).Function("Sweep")
	var result SweepResult

	stored, err := s.store.List(ctx, models.GameArtifactKind)
	if err != nil {
		return result, log.Err("failed to list stored artifacts", err)
	}
	result.Scanned = len(stored)

	if len(stored) == 0 {
		return result, nil
	}

	referenced, err := s.games.ListFilenames(ctx, s.db.SQLWithContext(ctx))
	if err != nil {
		return result, log.Err("failed to list referenced artifacts", err)
	}

	cutoff := s.now().Add(-s.grace)
	for _, artifact := range stored {
		if _, ok := referenced[artifact.Token]; ok {
			continue
		}
		if artifact.ModifiedAt.After(cutoff) {
			continue
		}

		if err := s.store.Delete(ctx, models.GameArtifactKind, artifact.Token); err != nil {
			log.Er("failed to remove orphaned artifact", err, "token", artifact.Token)
			result.Failed++
			continue
		}
		result.Removed++
	}

	log.Info("Artifact sweep finished",
		"scanned", result.Scanned,
		"removed", result.Removed,
		"failed", result.Failed,
	)
	return result, nil
}
