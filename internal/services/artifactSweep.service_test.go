package services

import (
	"chip8arcade/internal/artifacts"
	"chip8arcade/internal/database"
	"chip8arcade/internal/keyconfig"
	"chip8arcade/internal/models"
	"chip8arcade/internal/repositories"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSweepTest(t *testing.T) (*ArtifactSweepService, *artifacts.LocalStore, database.DB) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gormDB.AutoMigrate(&models.Role{}, &models.User{}, &models.Game{}, &models.ControlConfig{}))

	db := database.DB{SQL: gormDB}
	store := artifacts.NewLocalStoreWithFs(afero.NewMemMapFs(), "uploads")
	service := NewArtifactSweepService(db, store, repositories.NewGameRepository(nil), time.Hour)

	return service, store, db
}

func TestArtifactSweepService_RemovesOnlyOldOrphans(t *testing.T) {
	service, store, db := setupSweepTest(t)
	ctx := context.Background()

	owner := &models.User{Name: "owner", IsActive: true}
	require.NoError(t, db.SQL.Create(owner).Error)

	referenced, err := store.Put(ctx, models.GameArtifactKind, []byte{0x00, 0xE0})
	require.NoError(t, err)
	require.NoError(t, db.SQL.Create(&models.Game{
		UserID:         owner.ID,
		Title:          "Pong",
		Description:    "Paddles",
		Filename:       referenced,
		ControlConfigs: []models.ControlConfig{models.NewControlConfig(keyconfig.Mapping{81: "1"}, nil)},
	}).Error)

	orphan, err := store.Put(ctx, models.GameArtifactKind, []byte{0x12})
	require.NoError(t, err)

	service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	result, err := service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 2, Removed: 1}, result)

	exists, err := store.Exists(ctx, models.GameArtifactKind, orphan)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.Exists(ctx, models.GameArtifactKind, referenced)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestArtifactSweepService_KeepsRecentOrphans(t *testing.T) {
	service, store, _ := setupSweepTest(t)
	ctx := context.Background()

	recent, err := store.Put(ctx, models.GameArtifactKind, []byte{0x12})
	require.NoError(t, err)

	result, err := service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Removed)

	exists, err := store.Exists(ctx, models.GameArtifactKind, recent)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestArtifactSweepService_EmptyStore(t *testing.T) {
	service, _, _ := setupSweepTest(t)

	result, err := service.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)
}

func TestArtifactSweepService_ClampsGrace(t *testing.T) {
	for _, grace := range []time.Duration{0, -5 * time.Minute, time.Second} {
		service := NewArtifactSweepService(database.DB{}, nil, nil, grace)
		assert.Equal(t, MinSweepGrace, service.grace, "grace %s", grace)
	}

	service := NewArtifactSweepService(database.DB{}, nil, nil, 2*time.Hour)
	assert.Equal(t, 2*time.Hour, service.grace)
}

func TestArtifactSweepService_KeepsUncommittedUploadWithZeroGrace(t *testing.T) {
	_, store, db := setupSweepTest(t)
	ctx := context.Background()
	service := NewArtifactSweepService(db, store, repositories.NewGameRepository(nil), 0)

	pending, err := store.Put(ctx, models.GameArtifactKind, []byte{0x00, 0xE0})
	require.NoError(t, err)

	result, err := service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 1}, result)

	exists, err := store.Exists(ctx, models.GameArtifactKind, pending)
	require.NoError(t, err)
	assert.True(t, exists)
}
