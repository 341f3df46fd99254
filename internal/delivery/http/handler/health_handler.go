package handler

import (
	"time"

	"kazi-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	service string
	started time.Time
}

func NewHealthHandler(service string) *HealthHandler {
	if service == "" {
		service = "kazi-hub"
	}
	return &HealthHandler{service: service, started: time.Now().UTC()}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/", h.HandleRoot)
	app.Get("/healthz", h.HandleHealth)
}

// HandleRoot serves the service banner with the endpoint listing.
func (h *HealthHandler) HandleRoot(c fiber.Ctx) error {
	data := map[string]any{
		"service": h.service,
		"endpoints": map[string]string{
			"GET  /api/v1/jobs":         "Scraped jobs, with optional county/sector/type/q/limit filters",
			"GET  /api/v1/status":       "Scraper status and freshness",
			"POST /api/v1/admin/token":  "Exchange the admin secret for a bearer token",
			"POST /api/v1/admin/scrape": "Manually trigger a scrape (admin only)",
			"GET  /ws":                  "Live snapshot publish events",
		},
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	data := map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
