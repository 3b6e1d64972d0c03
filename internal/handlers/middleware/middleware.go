package middleware

import (
	"chip8arcade/config"
	"chip8arcade/internal/database"
	"chip8arcade/internal/repositories"
	"chip8arcade/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB          database.DB
	userRepo    repositories.UserRepository
	authService *services.AuthService
	Config      config.Config
	log         logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	authService *services.AuthService,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:          db,
		userRepo:    repos.User,
		authService: authService,
		Config:      config,
		log:         log,
	}
}
