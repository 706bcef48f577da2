package app

import (
	"fmt"
	"log"
	"os"
	"strings"

	"homepro/internal/config"
	"homepro/internal/delivery/http/handler"
	"homepro/internal/delivery/http/middleware"
	"homepro/internal/delivery/http/routes"
	v1 "homepro/internal/delivery/http/routes/v1"
	"homepro/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
	Hub   *ws.Hub
}

// Bootstrap builds the whole service: database (with migrations applied),
// cache, WebSocket hub and the HTTP surface. The returned cleanup stops the
// hub and closes every connection.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	errMw := middleware.NewErrorMiddleware()
	accessMw := middleware.NewAccessLogMiddleware(logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	handler.NewHealthHandler(container.DB).RegisterRoutes(f)

	api := f.Group("/api")
	routes.RegisterV1(api.Group("/v1"), v1.Deps{
		Config: cfg,
		DB:     container.DB,
		Cache:  container.Cache,
		Hub:    hub,
		Logger: logger,
	})

	app := &App{Fiber: f, Hub: hub}
	cleanup := func() error {
		hub.Stop()
		return container.Close()
	}
	return app, cleanup, nil
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
