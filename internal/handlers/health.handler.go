package handlers

import (
	"chip8arcade/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"version":   app.Config.GeneralVersion,
			"service":   "chip8arcade_api",
			"scheduler": app.Services.Scheduler.Status(),
		})
	})
}
