package services

import (
	"chip8arcade/config"
	"chip8arcade/internal/artifacts"
	"chip8arcade/internal/database"
	"chip8arcade/internal/repositories"
	"time"
)

type Service struct {
	Transaction   *TransactionService
	Scheduler     *SchedulerService
	Auth          *AuthService
	ArtifactSweep *ArtifactSweepService
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	store artifacts.Store,
) Service {
	return Service{
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(),
		Auth:        NewAuthService(config),
		ArtifactSweep: NewArtifactSweepService(
			db,
			store,
			repos.Game,
			time.Duration(config.ArtifactSweepGrace)*time.Minute,
		),
	}
}
