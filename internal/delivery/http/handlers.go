package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/citysky/weather/internal/domain"
	"github.com/citysky/weather/internal/service"
)

const (
	defaultLookupLimit = 20
	maxLookupLimit     = 100
)

// Handler contains all HTTP handlers
type Handler struct {
	session *service.Session
	repo    service.LookupRepository
}

// NewHandler creates a new handler
func NewHandler(session *service.Session, repo service.LookupRepository) *Handler {
	return &Handler{
		session: session,
		repo:    repo,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	storage := "ok"
	if err := h.repo.Health(c.Context()); err != nil {
		storage = err.Error()
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "citysky-weather",
		"version": "1.0.0",
		"storage": storage,
	})
}

// GetWeather looks up ?city= in the session's units. An optional ?units=
// changes the preference first.
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	// The session keeps the city past this request, so it must not alias
	// fasthttp's reused buffer.
	city := utils.CopyString(c.Query("city"))

	if raw := c.Query("units"); raw != "" {
		units, err := domain.ParseUnits(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "units must be c or f")
		}
		return c.JSON(weatherResponse(h.session.LookupIn(c.Context(), city, units)))
	}

	out := h.session.Lookup(c.Context(), city)
	return c.JSON(weatherResponse(out))
}

// ToggleUnits flips C/F and re-runs the last lookup
func (h *Handler) ToggleUnits(c *fiber.Ctx) error {
	out := h.session.ToggleUnits(c.Context())
	return c.JSON(weatherResponse(out))
}

// GetSession returns the current unit, city and display
func (h *Handler) GetSession(c *fiber.Ctx) error {
	return c.JSON(h.session.Snapshot())
}

// GetEmoji returns the emoji for a condition code
func (h *Handler) GetEmoji(c *fiber.Ctx) error {
	code, err := strconv.Atoi(c.Params("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "code must be an integer")
	}

	return c.JSON(fiber.Map{
		"code":  code,
		"emoji": service.EmojiFor(code),
	})
}

// GetLookups returns the newest lookup log entries
func (h *Handler) GetLookups(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLookupLimit)
	if limit < 1 || limit > maxLookupLimit {
		limit = defaultLookupLimit
	}

	data, err := h.repo.RecentLookups(c.Context(), limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch lookup log")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// weatherResponse reports failed lookups as success=false but still 200:
// the error display is a normal shell state.
func weatherResponse(out service.LookupOutcome) domain.WeatherResponse {
	resp := domain.WeatherResponse{
		Data:    out.Display,
		Units:   out.Query.Units,
		Success: out.Err == nil,
	}
	if out.Stale {
		resp.Message = "superseded by a newer lookup"
	}
	return resp
}
