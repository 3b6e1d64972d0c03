package models

import (
	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	Name     string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Email    *string `gorm:"type:varchar(255);uniqueIndex"          json:"email,omitempty"`
	IsActive bool    `gorm:"type:bool;default:true"                 json:"isActive"`
	Roles    []Role  `gorm:"many2many:user_roles;"                  json:"roles,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Name == "" {
		return gorm.ErrInvalidValue
	}
	return u.AssignID()
}

// HasRole reports whether the user holds the named role. Roles must be preloaded.
func (u *User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	IsActive bool     `json:"isActive"`
	Roles    []string `json:"roles"`
}

// ToProfile converts a User to a UserProfile (public information only)
func (u *User) ToProfile() UserProfile {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, role.Name)
	}

	return UserProfile{
		ID:       u.ID.String(),
		Name:     u.Name,
		IsActive: u.IsActive,
		Roles:    roles,
	}
}
