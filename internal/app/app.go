package app

import (
	"chip8arcade/config"
	"chip8arcade/internal/artifacts"
	"chip8arcade/internal/controllers"
	"chip8arcade/internal/database"
	"chip8arcade/internal/handlers/middleware"
	"chip8arcade/internal/jobs"
	"chip8arcade/internal/repositories"
	"chip8arcade/internal/services"
	"context"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Config      config.Config
	Artifacts   artifacts.Store
	Repos       repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	store, err := artifacts.New(context.Background(), config)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to create artifact store", err)
	}

	app := Build(db, config, store)

	if err := jobs.RegisterAllJobs(app.Services.Scheduler, config, app.Services); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

// Build wires repositories, services, controllers and middleware around an
// already opened database and artifact store.
func Build(db database.DB, config config.Config, store artifacts.Store) *App {
	repos := repositories.New(db)
	svc := services.New(db, config, repos, store)

	return &App{
		Database:    db,
		Config:      config,
		Artifacts:   store,
		Repos:       repos,
		Services:    svc,
		Controllers: controllers.New(svc, repos, config, db, store),
		Middleware:  middleware.New(db, config, repos, svc.Auth),
	}
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Artifacts,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Auth,
		a.Services.ArtifactSweep,
		a.Controllers.Game,
		a.Repos.User,
		a.Repos.Game,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
