package routes

import (
	"kazi-hub/internal/delivery/http/handler"
	"kazi-hub/internal/delivery/http/middleware"
	"kazi-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry wires every handler onto the app. The container builds it
// with ready handlers so this package stays free of construction logic.
type Registry struct {
	Health *handler.HealthHandler
	Jobs   *handler.JobsHandler
	Status *handler.StatusHandler
	Admin  *handler.AdminHandler
	WS     *ws.Handler

	AccessLog *middleware.AccessLogMiddleware
	Errors    *middleware.ErrorMiddleware
	AdminMW   *middleware.AdminMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if r == nil || app == nil {
		return
	}

	if r.Errors != nil {
		app.Use(r.Errors.Middleware())
	}
	if r.AccessLog != nil {
		app.Use(r.AccessLog.Middleware())
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.WS != nil {
		app.Get("/ws", r.WS.HandleJobsWS)
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	if r.Jobs != nil {
		r.Jobs.RegisterRoutes(v1)
	}
	if r.Status != nil {
		r.Status.RegisterRoutes(v1)
	}
	if r.Admin != nil && r.AdminMW != nil {
		r.Admin.RegisterRoutes(v1.Group("/admin"), r.AdminMW.Middleware())
	}
}
