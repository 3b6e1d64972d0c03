package handlers

import (
	"chip8arcade/config"
	"chip8arcade/internal/app"
	gameController "chip8arcade/internal/controllers/games"
	"chip8arcade/internal/handlers/middleware"
	"chip8arcade/internal/keyconfig"
	"chip8arcade/internal/models"
	"chip8arcade/internal/types"
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const messageNotInteger = "Not a valid integer value."

type GameHandler struct {
	Handler
	gameController gameController.GameControllerInterface
	maxUploadSize  int
}

type deleteGamesRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func NewGameHandler(app app.App, router fiber.Router) *GameHandler {
	log := logger.New("handlers").File("game_handler")

	maxUploadSize := app.Config.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = config.DefaultMaxUploadSize
	}

	return &GameHandler{
		gameController: app.Controllers.Game,
		maxUploadSize:  maxUploadSize,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *GameHandler) Register() {
	developer := []fiber.Handler{
		h.middleware.RequireAuth(),
		h.middleware.RequireRole(models.RoleGameDeveloper),
	}

	games := h.router.Group("/games")
	games.Get("", h.listGames)
	games.Get("/:id", h.getGame)
	games.Get("/:id/config", h.getGameConfig)
	games.Get("/:id/rom", h.getGameROM)

	games.Post("", append(developer, h.createGame)...)
	games.Put("/:id", append(developer, h.updateGame)...)
	games.Delete("", append(developer, h.deleteGames)...)
	games.Delete("/:id", append(developer, h.deleteGame)...)

	me := h.router.Group("/me")
	me.Get("/games", append(developer, h.listMyGames)...)
}

func (h *GameHandler) listGames(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listGames")

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("perPage", gameController.DefaultPerPage)

	games, err := h.gameController.List(c.UserContext(), page, perPage)
	if err != nil {
		_ = log.Err("Failed to list games", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list games",
		})
	}

	return c.JSON(fiber.Map{
		"games":   games,
		"page":    page,
		"perPage": perPage,
	})
}

func (h *GameHandler) listMyGames(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listMyGames")

	user := middleware.GetUser(c)
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("perPage", gameController.DefaultPerPage)

	games, err := h.gameController.ListByOwner(c.UserContext(), user, page, perPage)
	if err != nil {
		_ = log.Err("Failed to list owned games", err, "userID", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list games",
		})
	}

	return c.JSON(fiber.Map{
		"games":   games,
		"page":    page,
		"perPage": perPage,
	})
}

func (h *GameHandler) getGame(c *fiber.Ctx) error {
	gameID, ok := h.parseGameID(c)
	if !ok {
		return nil
	}

	game, err := h.gameController.Get(c.UserContext(), gameID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"game": game,
	})
}

func (h *GameHandler) getGameConfig(c *fiber.Ctx) error {
	gameID, ok := h.parseGameID(c)
	if !ok {
		return nil
	}

	playable, err := h.gameController.GetPlayableConfig(c.UserContext(), gameID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(playable)
}

func (h *GameHandler) getGameROM(c *fiber.Ctx) error {
	gameID, ok := h.parseGameID(c)
	if !ok {
		return nil
	}

	rom, err := h.gameController.GetROM(c.UserContext(), gameID)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(rom)
}

func (h *GameHandler) createGame(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createGame")
	user := middleware.GetUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		log.Warn("Invalid multipart form", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid form body",
		})
	}

	verr := &types.ValidationError{}
	request := gameController.GameForm{
		Title:        formValue(form, gameController.FieldTitle),
		Description:  formValue(form, gameController.FieldDescription),
		Instructions: optionalFormValue(form, gameController.FieldInstructions),
		KeyRows:      keyconfig.ParseForm(form.Value),
	}
	request.EmulatorSpeed = parseOptionalInt(form, gameController.FieldEmulatorSpeed, verr)

	request.ROM, err = h.readROM(form)
	if err != nil {
		_ = log.Err("Failed to read uploaded rom", err, "userID", user.ID)
		return h.respondError(c, gameController.ErrArtifactIO)
	}

	if verr.HasErrors() {
		return h.respondError(c, verr)
	}

	game, err := h.gameController.Create(c.UserContext(), user, request)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"game": game,
	})
}

func (h *GameHandler) updateGame(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateGame")
	user := middleware.GetUser(c)

	gameID, ok := h.parseGameID(c)
	if !ok {
		return nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		log.Warn("Invalid multipart form", "error", err, "gameID", gameID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid form body",
		})
	}

	verr := &types.ValidationError{}
	request := gameController.UpdateForm{
		Title:        optionalFormValue(form, gameController.FieldTitle),
		Description:  optionalFormValue(form, gameController.FieldDescription),
		Instructions: optionalFormValue(form, gameController.FieldInstructions),
	}
	request.EmulatorSpeed = parseOptionalInt(form, gameController.FieldEmulatorSpeed, verr)

	if keyconfig.Submitted(form.Value) {
		request.KeyRows = keyconfig.ParseForm(form.Value)
	}

	request.ROM, err = h.readROM(form)
	if err != nil {
		_ = log.Err("Failed to read uploaded rom", err, "gameID", gameID)
		return h.respondError(c, gameController.ErrArtifactIO)
	}

	if verr.HasErrors() {
		return h.respondError(c, verr)
	}

	game, err := h.gameController.Update(c.UserContext(), gameID, user, request)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"game": game,
	})
}

func (h *GameHandler) deleteGames(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteGames")

	var req deleteGamesRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	return h.delete(c, req.IDs)
}

func (h *GameHandler) deleteGame(c *fiber.Ctx) error {
	gameID, ok := h.parseGameID(c)
	if !ok {
		return nil
	}

	return h.delete(c, []uuid.UUID{gameID})
}

func (h *GameHandler) delete(c *fiber.Ctx, ids []uuid.UUID) error {
	user := middleware.GetUser(c)

	deleted, err := h.gameController.Delete(c.UserContext(), ids, user)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"deleted": deleted,
	})
}

func (h *GameHandler) parseGameID(c *fiber.Ctx) (uuid.UUID, bool) {
	idParam := c.Params("id")
	gameID, err := uuid.Parse(idParam)
	if err != nil {
		h.log.TraceFromContext(c.UserContext()).Function("parseGameID").
			Warn("Invalid game ID", "id", idParam)
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid game ID",
		})
		return uuid.Nil, false
	}
	return gameID, true
}

// readROM returns the uploaded game_rom, or nil when none was sent. At most
// one byte past the upload limit is read so oversized files still fail
// validation without being buffered whole.
func (h *GameHandler) readROM(form *multipart.Form) ([]byte, error) {
	files := form.File[gameController.FieldROM]
	if len(files) == 0 {
		return nil, nil
	}

	file, err := files[0].Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(io.LimitReader(file, int64(h.maxUploadSize)+1))
}

func (h *GameHandler) respondError(c *fiber.Ctx, err error) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("respondError")

	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": verr.Fields,
			"form":   verr.Form,
		})
	case errors.Is(err, gameController.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, gameController.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": gameController.ErrForbidden.Error(),
		})
	case errors.Is(err, gameController.ErrArtifactIO):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": gameController.ErrArtifactIO.Error(),
		})
	case errors.Is(err, gameController.ErrPersistence):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": gameController.ErrPersistence.Error(),
		})
	default:
		_ = log.Err("Unhandled game error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func optionalFormValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func parseOptionalInt(form *multipart.Form, key string, verr *types.ValidationError) *int {
	raw := optionalFormValue(form, key)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		verr.AddField(key, messageNotInteger)
		return nil
	}
	return &value
}
