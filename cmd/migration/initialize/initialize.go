package initialize

import (
	"chip8arcade/config"
	. "chip8arcade/internal/models"
	"chip8arcade/internal/repositories"
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if _, err := InitializeRoles(context.Background(), db, log); err != nil {
		return log.Err("failed to initialize roles", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// InitializeRoles makes sure the Game Developer role exists and returns it.
func InitializeRoles(ctx context.Context, db *gorm.DB, log logger.Logger) (*Role, error) {
	log = log.Function("InitializeRoles")

	description := RoleGameDeveloperDescription
	role, err := repositories.NewRoleRepository().FindOrCreate(ctx, db, &Role{
		Name:        RoleGameDeveloper,
		DisplayName: RoleGameDeveloperName,
		Description: &description,
	})
	if err != nil {
		return nil, log.Err("failed to create role", err, "role", RoleGameDeveloper)
	}

	log.Info("Role ready", "role", role.Name)
	return role, nil
}
