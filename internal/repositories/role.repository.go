package repositories

import (
	. "chip8arcade/internal/models"
	"context"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type RoleRepository interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*Role, error)
	FindOrCreate(ctx context.Context, tx *gorm.DB, role *Role) (*Role, error)
}

type roleRepository struct {
	log logger.Logger
}

func NewRoleRepository() RoleRepository {
	return &roleRepository{log: logger.New("roleRepository")}
}

func (r *roleRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*Role, error) {
	var role Role
	if err := tx.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, r.log.TraceFromContext(ctx).Function("GetByName").
			Err("failed to get role", err, "name", name)
	}
	return &role, nil
}

func (r *roleRepository) FindOrCreate(ctx context.Context, tx *gorm.DB, role *Role) (*Role, error) {
	log := r.log.TraceFromContext(ctx).Function("FindOrCreate")

	existing, err := r.GetByName(ctx, tx, role.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := tx.WithContext(ctx).Create(role).Error; err != nil {
		return nil, log.Err("failed to create role", err, "name", role.Name)
	}

	log.Info("Created role", "name", role.Name)
	return role, nil
}
