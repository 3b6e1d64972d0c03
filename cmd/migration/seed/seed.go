package seed

import (
	"chip8arcade/cmd/migration/initialize"
	"chip8arcade/config"
	. "chip8arcade/internal/models"
	"chip8arcade/internal/repositories"
	"chip8arcade/internal/services"
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	TestUserName  = "test_dev"
	TestUserEmail = "test_dev@test.com"
)

func stringPtr(s string) *string {
	return &s
}

// Seed creates the test_dev account holding the Game Developer role and logs
// a bearer token for it.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	ctx := context.Background()

	role, err := initialize.InitializeRoles(ctx, db, log)
	if err != nil {
		return err
	}

	users := repositories.NewUserRepository(nil)
	user, err := users.FindOrCreate(ctx, db, &User{
		Name:     TestUserName,
		Email:    stringPtr(TestUserEmail),
		IsActive: true,
	})
	if err != nil {
		return log.Err("failed to create test user", err, "name", TestUserName)
	}

	if err := users.AssignRole(ctx, db, user, role); err != nil {
		return log.Err("failed to assign role", err, "name", TestUserName)
	}

	if config.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, skipping development token")
		return nil
	}

	token, err := services.NewAuthService(config).IssueToken(user.ID, services.DefaultTokenExpiry)
	if err != nil {
		return log.Err("failed to issue development token", err)
	}

	log.Info("Seeded development user", "name", user.Name, "userID", user.ID, "token", token)
	return nil
}
