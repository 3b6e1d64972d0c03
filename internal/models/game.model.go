package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameArtifactKind is the artifact directory holding game ROMs.
const GameArtifactKind = "game"

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 5000
)

type Game struct {
	BaseUUIDModel
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_games_user"        json:"userId"`
	Title        string    `gorm:"type:varchar(255);not null"                     json:"title"`
	Description  string    `gorm:"type:text;not null"                             json:"description"`
	Instructions *string   `gorm:"type:text"                                      json:"instructions,omitempty"`
	Filename     string    `gorm:"type:varchar(255);not null;uniqueIndex"         json:"-"`

	// Relationships
	User           *User           `gorm:"foreignKey:UserID"                               json:"user,omitempty"`
	ControlConfigs []ControlConfig `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.UserID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if g.Title == "" || g.Description == "" || g.Filename == "" {
		return gorm.ErrInvalidValue
	}
	return g.AssignID()
}

func (g *Game) BeforeUpdate(tx *gorm.DB) error {
	if g.Title == "" || g.Description == "" || g.Filename == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (g *Game) ArtifactKind() string {
	return GameArtifactKind
}

func (g *Game) ArtifactToken() string {
	return g.Filename
}

// IsOwnedBy reports whether userID created the game.
func (g *Game) IsOwnedBy(userID uuid.UUID) bool {
	return g.UserID == userID
}

// ControlConfig returns the authoritative control configuration, the first
// one stored, or nil when the game has none. ControlConfigs must be preloaded.
func (g *Game) ControlConfig() *ControlConfig {
	if len(g.ControlConfigs) == 0 {
		return nil
	}
	return &g.ControlConfigs[0]
}
