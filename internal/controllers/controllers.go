package controllers

import (
	"chip8arcade/config"
	"chip8arcade/internal/artifacts"
	"chip8arcade/internal/database"
	"chip8arcade/internal/repositories"
	"chip8arcade/internal/services"

	gameController "chip8arcade/internal/controllers/games"
)

type Controllers struct {
	Game gameController.GameControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
	db database.DB,
	store artifacts.Store,
) Controllers {
	return Controllers{
		Game: gameController.New(repos, services, config, db, store),
	}
}
