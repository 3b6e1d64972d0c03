package seed

import (
	"chip8arcade/config"
	. "chip8arcade/internal/models"
	"chip8arcade/internal/services"
	"context"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&Role{}, &User{}, &Game{}, &ControlConfig{}))
	return db
}

func TestSeed_CreatesDeveloperAccount(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Config{JWTSecret: "seed-secret"}

	require.NoError(t, Seed(db, cfg, logger.New("seed_test")))

	var user User
	require.NoError(t, db.Preload("Roles").First(&user, "name = ?", TestUserName).Error)
	require.NotNil(t, user.Email)
	assert.Equal(t, TestUserEmail, *user.Email)
	assert.True(t, user.HasRole(RoleGameDeveloper))

	token, err := services.NewAuthService(cfg).IssueToken(user.ID, services.DefaultTokenExpiry)
	require.NoError(t, err)
	id, err := services.NewAuthService(cfg).ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestSeed_IsRepeatable(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, config.Config{}, logger.New("seed_test")))
	require.NoError(t, Seed(db, config.Config{}, logger.New("seed_test")))

	var users, roles int64
	require.NoError(t, db.Model(&User{}).Count(&users).Error)
	require.NoError(t, db.Model(&Role{}).Count(&roles).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), roles)

	var links int64
	require.NoError(t, db.Table("user_roles").Count(&links).Error)
	assert.Equal(t, int64(1), links)
}
