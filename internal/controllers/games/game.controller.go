package gameController

import (
	"chip8arcade/config"
	"chip8arcade/internal/artifacts"
	"chip8arcade/internal/database"
	"chip8arcade/internal/keyconfig"
	. "chip8arcade/internal/models"
	"chip8arcade/internal/repositories"
	"chip8arcade/internal/services"
	"chip8arcade/internal/types"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100

	Chip8FontAsset     = "fonts/chip8_font.bin"
	SuperChipFontAsset = "fonts/super_chip_font.bin"
)

var (
	ErrNotFound    = errors.New("game not found")
	ErrForbidden   = errors.New("you do not have permission to modify this game")
	ErrArtifactIO  = errors.New("failed to save file")
	ErrPersistence = errors.New("failed to store file in database")
)

// GameForm is a new game submission. KeyRows are the raw key configuration
// slots in form order.
type GameForm struct {
	Title         string          `form:"title"          validate:"required,max=255,gametitle"`
	Description   string          `form:"description"    validate:"required,max=5000"`
	Instructions  *string         `form:"instructions"   validate:"omitnil,max=5000"`
	EmulatorSpeed *int            `form:"emulator_speed" validate:"omitnil,min=1,max=1000"`
	ROM           []byte          `form:"-"`
	KeyRows       []keyconfig.Row `form:"-"`
}

// UpdateForm changes an existing game. Nil fields keep their stored value.
type UpdateForm struct {
	Title         *string         `form:"title"          validate:"omitnil,required,max=255,gametitle"`
	Description   *string         `form:"description"    validate:"omitnil,required,max=5000"`
	Instructions  *string         `form:"instructions"   validate:"omitnil,max=5000"`
	EmulatorSpeed *int            `form:"emulator_speed" validate:"omitnil,min=1,max=1000"`
	ROM           []byte          `form:"-"`
	KeyRows       []keyconfig.Row `form:"-"`
}

// PlayableConfig is the document the browser player loads before starting a game.
type PlayableConfig struct {
	ROM           string         `json:"rom"`
	Chip8Font     string         `json:"chip8_font"`
	SuperChipFont string         `json:"super_chip_font"`
	KeyConfig     map[string]int `json:"key_config"`
	EmulatorSpeed *int           `json:"emulator_speed,omitempty"`
}

type GameControllerInterface interface {
	Create(ctx context.Context, owner *User, form GameForm) (*Game, error)
	Update(ctx context.Context, gameID uuid.UUID, requester *User, form UpdateForm) (*Game, error)
	Delete(ctx context.Context, ids []uuid.UUID, requester *User) ([]uuid.UUID, error)
	GetPlayableConfig(ctx context.Context, gameID uuid.UUID) (*PlayableConfig, error)
	GetROM(ctx context.Context, gameID uuid.UUID) ([]byte, error)
	Get(ctx context.Context, gameID uuid.UUID) (*Game, error)
	List(ctx context.Context, page, perPage int) ([]*Game, error)
	ListByOwner(ctx context.Context, owner *User, page, perPage int) ([]*Game, error)
}

type GameController struct {
	gameRepo           repositories.GameRepository
	transactionService *services.TransactionService
	store              artifacts.Store
	validate           *validator.Validate
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
	store artifacts.Store,
) GameControllerInterface {
	return &GameController{
		gameRepo:           repos.Game,
		transactionService: services.Transaction,
		store:              store,
		validate:           newValidator(),
		db:                 db,
		Config:             config,
		log:                logger.New("gameController"),
	}
}

func (c *GameController) Create(ctx context.Context, owner *User, form GameForm) (*Game, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	verr := &types.ValidationError{}
	if err := collectValidation(c.validate.Struct(form), verr); err != nil {
		return nil, log.Err("failed to validate game form", err)
	}
	c.validateROM(form.ROM, verr)

	mapping, err := keyconfig.Validate(form.KeyRows)
	if err != nil {
		mergeValidation(verr, err)
	}

	if verr.HasErrors() {
		return nil, verr
	}

	var game *Game
	for attempt := 1; ; attempt++ {
		token, err := c.store.Put(ctx, GameArtifactKind, form.ROM)
		if err != nil {
			log.Er("failed to store rom", err, "ownerID", owner.ID)
			return nil, fmt.Errorf("%w: %w", ErrArtifactIO, err)
		}

		game = &Game{
			UserID:         owner.ID,
			Title:          form.Title,
			Description:    form.Description,
			Instructions:   normalizeOptional(form.Instructions),
			Filename:       token,
			ControlConfigs: []ControlConfig{NewControlConfig(mapping, form.EmulatorSpeed)},
		}

		err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			return c.gameRepo.Create(ctx, tx, game)
		})
		if err == nil {
			break
		}

		artifacts.Discard(ctx, c.store, GameArtifactKind, token)

		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 1 {
			log.Warn("artifact token collided with an existing game, retrying", "token", token)
			continue
		}

		log.Er("failed to insert game", err, "ownerID", owner.ID)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.Info("Game created", "gameID", game.ID, "ownerID", owner.ID)
	return game, nil
}

func (c *GameController) Update(
	ctx context.Context,
	gameID uuid.UUID,
	requester *User,
	form UpdateForm,
) (*Game, error) {
	log := c.log.TraceFromContext(ctx).Function("Update")

	game, err := c.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if !game.IsOwnedBy(requester.ID) {
		log.Warn("rejected update from non-owner", "gameID", gameID, "requesterID", requester.ID)
		return nil, ErrForbidden
	}

	verr := &types.ValidationError{}
	if err := collectValidation(c.validate.Struct(form), verr); err != nil {
		return nil, log.Err("failed to validate game form", err)
	}
	if form.ROM != nil {
		c.validateROM(form.ROM, verr)
	}

	var mapping keyconfig.Mapping
	if form.KeyRows != nil {
		mapping, err = keyconfig.Validate(form.KeyRows)
		if err != nil {
			mergeValidation(verr, err)
		}
	}

	current := game.ControlConfig()
	if current == nil && form.KeyRows == nil && form.EmulatorSpeed != nil {
		verr.AddField(FieldEmulatorSpeed, messageNoConfig)
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if form.Title != nil {
		game.Title = *form.Title
	}
	if form.Description != nil {
		game.Description = *form.Description
	}
	if form.Instructions != nil {
		game.Instructions = normalizeOptional(form.Instructions)
	}

	var controlConfig *ControlConfig
	switch {
	case current != nil && (mapping != nil || form.EmulatorSpeed != nil):
		controlConfig = current
		if mapping != nil {
			controlConfig.SetMapping(mapping)
		}
		if form.EmulatorSpeed != nil {
			controlConfig.EmulatorSpeed = form.EmulatorSpeed
		}
	case current == nil && mapping != nil:
		created := NewControlConfig(mapping, form.EmulatorSpeed)
		created.GameID = game.ID
		controlConfig = &created
	}

	commit := func(ctx context.Context, newToken string) error {
		if newToken != "" {
			game.Filename = newToken
		}
		return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			if err := c.gameRepo.Update(ctx, tx, game); err != nil {
				return err
			}
			if controlConfig != nil {
				return c.gameRepo.SaveControlConfig(ctx, tx, controlConfig)
			}
			return nil
		})
	}

	if form.ROM != nil {
		committed := false
		_, err = artifacts.Replace(ctx, c.store, GameArtifactKind, game.Filename, form.ROM,
			func(ctx context.Context, newToken string) error {
				committed = true
				return commit(ctx, newToken)
			},
		)
		if err != nil {
			if !committed {
				log.Er("failed to store replacement rom", err, "gameID", gameID)
				return nil, fmt.Errorf("%w: %w", ErrArtifactIO, err)
			}
			log.Er("failed to update game", err, "gameID", gameID)
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	} else if err := commit(ctx, ""); err != nil {
		log.Er("failed to update game", err, "gameID", gameID)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if controlConfig != nil && current == nil {
		game.ControlConfigs = append(game.ControlConfigs, *controlConfig)
	}

	c.clearConfigCache(ctx, game.ID)

	log.Info("Game updated", "gameID", game.ID, "romReplaced", form.ROM != nil)
	return game, nil
}

func (c *GameController) Delete(
	ctx context.Context,
	ids []uuid.UUID,
	requester *User,
) ([]uuid.UUID, error) {
	log := c.log.TraceFromContext(ctx).Function("Delete")

	var deleted []*Game
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		deleted, err = c.gameRepo.DeleteOwned(ctx, tx, requester.ID, ids)
		return err
	})
	if err != nil {
		log.Er("failed to delete games", err, "requesterID", requester.ID)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	deletedIDs := make([]uuid.UUID, 0, len(deleted))
	for _, game := range deleted {
		artifacts.Discard(ctx, c.store, GameArtifactKind, game.Filename)
		c.clearConfigCache(ctx, game.ID)
		deletedIDs = append(deletedIDs, game.ID)
	}

	log.Info("Games deleted", "requested", len(ids), "deleted", len(deletedIDs), "requesterID", requester.ID)
	return deletedIDs, nil
}

func (c *GameController) GetPlayableConfig(ctx context.Context, gameID uuid.UUID) (*PlayableConfig, error) {
	log := c.log.TraceFromContext(ctx).Function("GetPlayableConfig")

	var cached PlayableConfig
	found, err := c.gameRepo.GetCachedConfig(ctx, gameID, &cached)
	if err != nil {
		log.Warn("failed to read cached game config", "gameID", gameID, "error", err)
	}
	if found {
		return &cached, nil
	}

	game, err := c.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	controlConfig := game.ControlConfig()
	if controlConfig == nil {
		return nil, fmt.Errorf("%w: no key configuration for this game", ErrNotFound)
	}

	playable := &PlayableConfig{
		ROM:           ROMPath(game.ID),
		Chip8Font:     c.staticPath(Chip8FontAsset),
		SuperChipFont: c.staticPath(SuperChipFontAsset),
		KeyConfig:     controlConfig.Mapping().Reverse(),
		EmulatorSpeed: controlConfig.EmulatorSpeed,
	}

	if err := c.gameRepo.SetCachedConfig(ctx, gameID, playable); err != nil {
		log.Warn("failed to cache game config", "gameID", gameID, "error", err)
	} else {
		c.dropIfStale(ctx, game)
	}

	return playable, nil
}

// dropIfStale removes a config just cached from game when the game has been
// written since it was loaded. Writers clear the cache after they commit, so
// either the writer's clear lands after this entry or this check sees the
// newer timestamp.
func (c *GameController) dropIfStale(ctx context.Context, game *Game) {
	current, err := c.gameRepo.GetUpdatedAt(ctx, c.db.SQL, game.ID)
	if err == nil && current.Equal(game.UpdatedAt) {
		return
	}
	c.clearConfigCache(ctx, game.ID)
}

func (c *GameController) GetROM(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	log := c.log.TraceFromContext(ctx).Function("GetROM")

	game, err := c.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	rom, err := c.store.Get(ctx, game.ArtifactKind(), game.ArtifactToken())
	if err != nil {
		if errors.Is(err, artifacts.ErrNotFound) {
			log.Warn("game has no stored rom", "gameID", gameID, "path", artifacts.PathFor(game))
			return nil, fmt.Errorf("%w: rom is missing", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %w", ErrArtifactIO, err)
	}

	return rom, nil
}

func (c *GameController) Get(ctx context.Context, gameID uuid.UUID) (*Game, error) {
	return c.loadGame(ctx, gameID)
}

func (c *GameController) List(ctx context.Context, page, perPage int) ([]*Game, error) {
	log := c.log.TraceFromContext(ctx).Function("List")

	limit, offset := pagination(page, perPage)
	games, err := c.gameRepo.List(ctx, c.db.SQL, limit, offset)
	if err != nil {
		return nil, log.Err("failed to list games", err, "page", page)
	}

	return games, nil
}

func (c *GameController) ListByOwner(
	ctx context.Context,
	owner *User,
	page, perPage int,
) ([]*Game, error) {
	log := c.log.TraceFromContext(ctx).Function("ListByOwner")

	limit, offset := pagination(page, perPage)
	games, err := c.gameRepo.ListByOwner(ctx, c.db.SQL, owner.ID, limit, offset)
	if err != nil {
		return nil, log.Err("failed to list owned games", err, "ownerID", owner.ID)
	}

	return games, nil
}

func (c *GameController) loadGame(ctx context.Context, gameID uuid.UUID) (*Game, error) {
	game, err := c.gameRepo.GetByID(ctx, c.db.SQL, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, c.log.TraceFromContext(ctx).Function("loadGame").
			Err("failed to load game", err, "gameID", gameID)
	}
	return game, nil
}

func (c *GameController) validateROM(rom []byte, verr *types.ValidationError) {
	if len(rom) == 0 {
		verr.AddField(FieldROM, messageRequired)
		return
	}

	maxSize := c.Config.MaxUploadSize
	if maxSize <= 0 {
		maxSize = config.DefaultMaxUploadSize
	}
	if len(rom) > maxSize {
		verr.AddField(FieldROM, FileSizeMessage(maxSize))
	}
}

func (c *GameController) clearConfigCache(ctx context.Context, gameID uuid.UUID) {
	if err := c.gameRepo.ClearConfigCache(ctx, gameID); err != nil {
		c.log.TraceFromContext(ctx).Function("clearConfigCache").
			Warn("stale game config may be served until expiry", "gameID", gameID, "error", err)
	}
}

func (c *GameController) staticPath(asset string) string {
	prefix := c.Config.StaticURLPrefix
	if prefix == "" {
		prefix = "/static"
	}
	return path.Join(prefix, asset)
}

// ROMPath is the public URL serving a game's raw ROM.
func ROMPath(gameID uuid.UUID) string {
	return "/api/games/" + gameID.String() + "/rom"
}

func mergeValidation(verr *types.ValidationError, err error) {
	var keyErr *types.ValidationError
	if errors.As(err, &keyErr) {
		verr.Merge(keyErr)
		return
	}
	verr.AddForm(err.Error())
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func pagination(page, perPage int) (limit, offset int) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}
