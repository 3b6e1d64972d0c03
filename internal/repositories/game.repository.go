package repositories

import (
	"chip8arcade/internal/constants"
	"chip8arcade/internal/database"
	. "chip8arcade/internal/models"
	"context"
	"errors"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type GameRepository interface {
	Create(ctx context.Context, tx *gorm.DB, game *Game) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Game, error)
	GetUpdatedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID) (time.Time, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*Game, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*Game, error)
	Update(ctx context.Context, tx *gorm.DB, game *Game) error
	SaveControlConfig(ctx context.Context, tx *gorm.DB, config *ControlConfig) error
	DeleteOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ids []uuid.UUID) ([]*Game, error)
	ListFilenames(ctx context.Context, tx *gorm.DB) (map[string]struct{}, error)

	GetCachedConfig(ctx context.Context, id uuid.UUID, result any) (bool, error)
	SetCachedConfig(ctx context.Context, id uuid.UUID, value any) error
	ClearConfigCache(ctx context.Context, id uuid.UUID) error
}

type gameRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewGameRepository(cache database.CacheClient) GameRepository {
	return &gameRepository{
		cache: cache,
		log:   logger.New("gameRepository"),
	}
}

func (r *gameRepository) Create(ctx context.Context, tx *gorm.DB, game *Game) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(game).Error; err != nil {
		return log.Err("failed to create game", err, "title", game.Title)
	}

	return nil
}

func (r *gameRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Game, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var game Game
	err := tx.WithContext(ctx).
		Preload("ControlConfigs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get game", err, "gameID", id)
	}

	return &game, nil
}

// GetUpdatedAt returns the game's last write time without loading relations.
func (r *gameRepository) GetUpdatedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID) (time.Time, error) {
	var game Game
	err := tx.WithContext(ctx).Select("id", "updated_at").First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, r.log.TraceFromContext(ctx).Function("GetUpdatedAt").
			Err("failed to get game timestamp", err, "gameID", id)
	}

	return game.UpdatedAt, nil
}

func (r *gameRepository) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*Game, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	games := []*Game{}
	if err := paginate(tx.WithContext(ctx), limit, offset).
		Order("created_at DESC, id DESC").
		Find(&games).Error; err != nil {
		return nil, log.Err("failed to list games", err)
	}

	return games, nil
}

func (r *gameRepository) ListByOwner(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit, offset int,
) ([]*Game, error) {
	log := r.log.TraceFromContext(ctx).Function("ListByOwner")

	games := []*Game{}
	if err := paginate(tx.WithContext(ctx), limit, offset).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&games).Error; err != nil {
		return nil, log.Err("failed to list games by owner", err, "userID", userID)
	}

	return games, nil
}

func paginate(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// Update saves the game's own columns. Control configurations are written
// separately through SaveControlConfig.
func (r *gameRepository) Update(ctx context.Context, tx *gorm.DB, game *Game) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Save(game).Error; err != nil {
		return log.Err("failed to update game", err, "gameID", game.ID)
	}

	return nil
}

func (r *gameRepository) SaveControlConfig(ctx context.Context, tx *gorm.DB, config *ControlConfig) error {
	log := r.log.TraceFromContext(ctx).Function("SaveControlConfig")

	if err := tx.WithContext(ctx).Save(config).Error; err != nil {
		return log.Err("failed to save control config", err, "gameID", config.GameID)
	}

	return nil
}

// DeleteOwned removes every game in ids that exists and belongs to userID,
// together with its control configurations, and returns the removed games.
// Ids that are unknown or owned by someone else are skipped.
func (r *gameRepository) DeleteOwned(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	ids []uuid.UUID,
) ([]*Game, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteOwned")

	games := []*Game{}
	if len(ids) == 0 {
		return games, nil
	}

	if err := tx.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&games).Error; err != nil {
		return nil, log.Err("failed to load games for deletion", err, "userID", userID)
	}

	if len(games) == 0 {
		return games, nil
	}

	owned := make([]uuid.UUID, 0, len(games))
	for _, game := range games {
		owned = append(owned, game.ID)
	}

	if err := tx.WithContext(ctx).Unscoped().
		Where("game_id IN ?", owned).
		Delete(&ControlConfig{}).Error; err != nil {
		return nil, log.Err("failed to delete control configs", err, "count", len(owned))
	}

	if err := tx.WithContext(ctx).Unscoped().
		Where("id IN ?", owned).
		Delete(&Game{}).Error; err != nil {
		return nil, log.Err("failed to delete games", err, "count", len(owned))
	}

	return games, nil
}

// ListFilenames returns the artifact token of every stored game.
func (r *gameRepository) ListFilenames(ctx context.Context, tx *gorm.DB) (map[string]struct{}, error) {
	log := r.log.TraceFromContext(ctx).Function("ListFilenames")

	var filenames []string
	if err := tx.WithContext(ctx).Unscoped().Model(&Game{}).Pluck("filename", &filenames).Error; err != nil {
		return nil, log.Err("failed to list game filenames", err)
	}

	result := make(map[string]struct{}, len(filenames))
	for _, filename := range filenames {
		result[filename] = struct{}{}
	}

	return result, nil
}

func (r *gameRepository) GetCachedConfig(ctx context.Context, id uuid.UUID, result any) (bool, error) {
	return database.NewCacheBuilder(r.cache, id).
		WithHash(constants.GameConfigPrefix).
		WithContext(ctx).
		Get(result)
}

func (r *gameRepository) SetCachedConfig(ctx context.Context, id uuid.UUID, value any) error {
	return database.NewCacheBuilder(r.cache, id).
		WithHash(constants.GameConfigPrefix).
		WithStruct(value).
		WithTTL(constants.GameConfigExpiry).
		WithContext(ctx).
		Set()
}

func (r *gameRepository) ClearConfigCache(ctx context.Context, id uuid.UUID) error {
	if err := database.NewCacheBuilder(r.cache, id).
		WithHash(constants.GameConfigPrefix).
		WithContext(ctx).
		Delete(); err != nil {
		return r.log.Function("ClearConfigCache").
			Err("failed to clear game config cache", err, "gameID", id)
	}
	return nil
}
