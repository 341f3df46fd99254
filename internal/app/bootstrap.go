package app

import (
	"fmt"
	"strings"

	"kazi-hub/internal/config"
	"kazi-hub/internal/delivery/http/handler"
	"kazi-hub/internal/delivery/http/middleware"
	"kazi-hub/internal/delivery/http/routes"
	"kazi-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, mounts the HTTP surface, and starts
// the websocket hub. The scheduler is left to the caller: the server
// starts it, the one-shot scraper does not.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.Name})

	reg := &routes.Registry{
		Health: handler.NewHealthHandler(cfg.App.Name),
		Jobs:   handler.NewJobsHandler(c.JobsQuery),
		Status: handler.NewStatusHandler(c.Status),
		Admin:  handler.NewAdminHandler(c.AdminAuth, c.Refresh),
		WS:     ws.NewHandler(c.Hub, c.Logger),

		AccessLog: middleware.NewAccessLogMiddleware(c.Logger),
		Errors:    middleware.NewErrorMiddleware(),
		AdminMW:   middleware.NewAdminMiddleware(c.AdminAuth),
	}
	reg.Register(f)

	go c.Hub.Run()

	cleanup := func() error { return c.Close() }
	return &App{Fiber: f, Container: c}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
