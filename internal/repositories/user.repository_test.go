package repositories

import (
	. "chip8arcade/internal/models"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindOrCreateAndAssignRole(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(nil)
	roles := NewRoleRepository()
	ctx := context.Background()

	role, err := roles.FindOrCreate(ctx, db, &Role{Name: RoleGameDeveloper, DisplayName: RoleGameDeveloperName})
	require.NoError(t, err)

	again, err := roles.FindOrCreate(ctx, db, &Role{Name: RoleGameDeveloper})
	require.NoError(t, err)
	assert.Equal(t, role.ID, again.ID)

	user, err := users.FindOrCreate(ctx, db, &User{Name: "test_dev", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, users.AssignRole(ctx, db, user, role))

	loaded, err := users.GetByID(ctx, db, user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.HasRole(RoleGameDeveloper))

	same, err := users.FindOrCreate(ctx, db, &User{Name: "test_dev"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, same.ID)
}

func TestUserRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(nil)

	_, err := users.GetByID(context.Background(), db, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = users.GetByName(context.Background(), db, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
