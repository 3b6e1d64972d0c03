package repositories

import (
	"chip8arcade/internal/constants"
	"chip8arcade/internal/database"
	. "chip8arcade/internal/models"
	"context"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*User, error)
	FindOrCreate(ctx context.Context, tx *gorm.DB, user *User) (*User, error)
	AssignRole(ctx context.Context, tx *gorm.DB, user *User, role *Role) error
	ClearUserCache(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

// GetByID loads the user with roles, preferring the cached copy.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var user User
	found, err := database.NewCacheBuilder(r.cache, id).
		WithHash(constants.UserCachePrefix).
		WithContext(ctx).
		Get(&user)
	if err != nil {
		log.Warn("failed to read user from cache", "userID", id, "error", err)
	}
	if found {
		return &user, nil
	}

	if err := tx.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get user by id", err, "userID", id)
	}

	if err := database.NewCacheBuilder(r.cache, id).
		WithHash(constants.UserCachePrefix).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByName")

	var user User
	if err := tx.WithContext(ctx).Preload("Roles").First(&user, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get user by name", err, "name", name)
	}

	return &user, nil
}

// FindOrCreate returns the user with the same name, creating it when missing.
func (r *userRepository) FindOrCreate(ctx context.Context, tx *gorm.DB, user *User) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("FindOrCreate")

	existing, err := r.GetByName(ctx, tx, user.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return nil, log.Err("failed to create user", err, "name", user.Name)
	}

	log.Info("Created user", "userID", user.ID, "name", user.Name)
	return user, nil
}

func (r *userRepository) AssignRole(ctx context.Context, tx *gorm.DB, user *User, role *Role) error {
	log := r.log.TraceFromContext(ctx).Function("AssignRole")

	if user.HasRole(role.Name) {
		return nil
	}

	if err := tx.WithContext(ctx).Model(user).Association("Roles").Append(role); err != nil {
		return log.Err("failed to assign role", err, "userID", user.ID, "role", role.Name)
	}

	return r.ClearUserCache(ctx, user.ID)
}

func (r *userRepository) ClearUserCache(ctx context.Context, id uuid.UUID) error {
	if err := database.NewCacheBuilder(r.cache, id).
		WithHash(constants.UserCachePrefix).
		WithContext(ctx).
		Delete(); err != nil {
		return r.log.Function("ClearUserCache").Err("failed to clear user cache", err, "userID", id)
	}
	return nil
}
