package models

import (
	"testing"

	"chip8arcade/internal/keyconfig"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGame_BeforeCreate(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name      string
		game      Game
		expectErr bool
	}{
		{
			name:      "valid game",
			game:      Game{UserID: owner, Title: "Pong", Description: "Two paddles", Filename: "abc"},
			expectErr: false,
		},
		{
			name:      "missing owner",
			game:      Game{Title: "Pong", Description: "Two paddles", Filename: "abc"},
			expectErr: true,
		},
		{
			name:      "missing filename",
			game:      Game{UserID: owner, Title: "Pong", Description: "Two paddles"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.game.BeforeCreate(nil)
			if tt.expectErr {
				assert.ErrorIs(t, err, gorm.ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, tt.game.ID)
		})
	}
}

func TestGame_KeepsPresetID(t *testing.T) {
	id := uuid.New()
	game := Game{BaseUUIDModel: BaseUUIDModel{ID: id}, UserID: uuid.New(), Title: "t", Description: "d", Filename: "f"}

	require.NoError(t, game.BeforeCreate(nil))
	assert.Equal(t, id, game.ID)
}

func TestGame_ArtifactAddressing(t *testing.T) {
	game := &Game{Filename: "0123456789abcdef0123456789abcdef"}

	assert.Equal(t, GameArtifactKind, game.ArtifactKind())
	assert.Equal(t, "0123456789abcdef0123456789abcdef", game.ArtifactToken())
}

func TestGame_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	game := &Game{UserID: owner}

	assert.True(t, game.IsOwnedBy(owner))
	assert.False(t, game.IsOwnedBy(uuid.New()))
}

func TestGame_ControlConfigUsesFirstEntry(t *testing.T) {
	game := &Game{}
	assert.Nil(t, game.ControlConfig())

	first := NewControlConfig(keyconfig.Mapping{5: "2"}, nil)
	second := NewControlConfig(keyconfig.Mapping{6: "4"}, nil)
	game.ControlConfigs = []ControlConfig{first, second}

	require.NotNil(t, game.ControlConfig())
	assert.Equal(t, keyconfig.Mapping{5: "2"}, game.ControlConfig().Mapping())
}

func TestControlConfig_BeforeCreateRequiresMapping(t *testing.T) {
	empty := NewControlConfig(keyconfig.Mapping{}, nil)
	assert.ErrorIs(t, empty.BeforeCreate(nil), gorm.ErrInvalidValue)

	speed := 12
	valid := NewControlConfig(keyconfig.Mapping{5: "2"}, &speed)
	require.NoError(t, valid.BeforeCreate(nil))
	assert.Equal(t, 12, *valid.EmulatorSpeed)
}
