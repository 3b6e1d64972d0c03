package models

import (
	"chip8arcade/internal/keyconfig"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ControlConfig struct {
	BaseUUIDModel
	GameID        uuid.UUID                              `gorm:"type:uuid;not null;index:idx_control_configs_game" json:"gameId"`
	KeyMapping    datatypes.JSONType[keyconfig.Mapping] `gorm:"not null"                                           json:"keyMapping"`
	EmulatorSpeed *int                                   `gorm:"type:int"                                           json:"emulatorSpeed,omitempty"`
}

func NewControlConfig(mapping keyconfig.Mapping, emulatorSpeed *int) ControlConfig {
	return ControlConfig{
		KeyMapping:    datatypes.NewJSONType(mapping),
		EmulatorSpeed: emulatorSpeed,
	}
}

func (c *ControlConfig) BeforeCreate(tx *gorm.DB) error {
	if len(c.KeyMapping.Data()) == 0 {
		return gorm.ErrInvalidValue
	}
	return c.AssignID()
}

func (c *ControlConfig) Mapping() keyconfig.Mapping {
	return c.KeyMapping.Data()
}

func (c *ControlConfig) SetMapping(mapping keyconfig.Mapping) {
	c.KeyMapping = datatypes.NewJSONType(mapping)
}
