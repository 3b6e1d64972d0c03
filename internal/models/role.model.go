package models

import "gorm.io/gorm"

const (
	RoleGameDeveloper            = "game_dev"
	RoleGameDeveloperName        = "Game Developer"
	RoleGameDeveloperDescription = "A chip 8 game developer that can add, edit, and remove their own chip8 games and supply game specific configurations for the chip 8 virtual machine."
)

type Role struct {
	BaseUUIDModel
	Name        string  `gorm:"type:varchar(80);not null;uniqueIndex" json:"name"`
	DisplayName string  `gorm:"type:text"                             json:"displayName"`
	Description *string `gorm:"type:text"                             json:"description,omitempty"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.Name == "" {
		return gorm.ErrInvalidValue
	}
	return r.AssignID()
}
