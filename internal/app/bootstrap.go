package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"expertise-marketplace/internal/config"
	"expertise-marketplace/internal/delivery/http/handler"
	"expertise-marketplace/internal/delivery/http/middleware"
	"expertise-marketplace/internal/delivery/http/routes"
	"expertise-marketplace/internal/metrics"
	"expertise-marketplace/internal/usecase"
	"expertise-marketplace/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber *fiber.App
}

// Deps are the pieces New mounts. Only Directory is required.
type Deps struct {
	Directory usecase.DirectoryUsecase
	Store     handler.Pinger
	Cache     handler.CacheStatus
	Hub       *ws.Hub
	Metrics   *metrics.Manager
	Logger    *log.Logger
}

func New(cfg config.Config, deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	registerGlobalMiddleware(f, cfg, deps)
	registerRoutes(f, deps)

	return &App{Fiber: f}
}

// Bootstrap builds the container and the HTTP app on top of it. The returned
// cleanup releases every connection the container opened.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	container, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var store handler.Pinger
	if container.Store.Pinger != nil {
		store = container.Store.Pinger
	}

	app := New(cfg, Deps{
		Directory: container.Directory,
		Store:     store,
		Cache:     container.Cache,
		Hub:       container.Hub,
		Metrics:   container.Metrics,
		Logger:    container.Logger,
	})
	return app, container.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, deps Deps) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(deps.Logger, cfg.App.LogLevel).Middleware())
	if deps.Metrics != nil {
		app.Use(middleware.NewMetricsMiddleware(deps.Metrics).Middleware())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: splitOrigins(cfg.App.CORSAllowOrigins),
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	errMw := middleware.NewErrorMiddleware(deps.Logger)
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, deps Deps) {
	if app == nil {
		return
	}

	var wsHandler *ws.Handler
	if deps.Hub != nil {
		wsHandler = ws.NewHandler(deps.Hub, deps.Logger)
	}

	var metricsHandler http.Handler
	if deps.Metrics != nil {
		metricsHandler = deps.Metrics.Handler()
	}

	routes.NewRegistry(deps.Directory, deps.Store, deps.Cache, wsHandler, metricsHandler).Register(app)
}

func splitOrigins(raw string) []string {
	out := make([]string, 0, 1)
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
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
