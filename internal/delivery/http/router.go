package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citysky/weather/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, session *service.Session, repo service.LookupRepository) {
	handler := NewHandler(session, repo)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/weather", handler.GetWeather)
		api.Post("/units/toggle", handler.ToggleUnits)
		api.Get("/session", handler.GetSession)
		api.Get("/emoji/:code", handler.GetEmoji)
		api.Get("/lookups", handler.GetLookups)
	}
}
