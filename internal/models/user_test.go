package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUser_HasRole(t *testing.T) {
	tests := []struct {
		name     string
		roles    []Role
		role     string
		expected bool
	}{
		{
			name:     "developer role present",
			roles:    []Role{{Name: RoleGameDeveloper}},
			role:     RoleGameDeveloper,
			expected: true,
		},
		{
			name:     "other role only",
			roles:    []Role{{Name: "admin"}},
			role:     RoleGameDeveloper,
			expected: false,
		},
		{
			name:     "no roles loaded",
			roles:    nil,
			role:     RoleGameDeveloper,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Name: "test_dev", Roles: tt.roles}
			assert.Equal(t, tt.expected, user.HasRole(tt.role))
		})
	}
}

func TestUser_ToProfile(t *testing.T) {
	user := &User{Name: "test_dev", IsActive: true, Roles: []Role{{Name: RoleGameDeveloper}}}
	user.ID = uuid.New()

	profile := user.ToProfile()

	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "test_dev", profile.Name)
	assert.True(t, profile.IsActive)
	assert.Equal(t, []string{RoleGameDeveloper}, profile.Roles)
}

func TestUser_BeforeCreate(t *testing.T) {
	assert.ErrorIs(t, (&User{}).BeforeCreate(nil), gorm.ErrInvalidValue)

	user := &User{Name: "test_dev"}
	require.NoError(t, user.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, user.ID)
}
