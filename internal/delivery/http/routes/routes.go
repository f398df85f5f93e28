package routes

import (
	"net/http"

	"expertise-marketplace/internal/delivery/http/handler"
	"expertise-marketplace/internal/usecase"
	"expertise-marketplace/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Registry struct {
	health      *handler.HealthHandler
	experts     *handler.ExpertHandler
	nominations *handler.NominationHandler
	categories  *handler.CategoryHandler
	ws          *ws.Handler
	metrics     http.Handler
}

// NewRegistry wires the directory routes. cache, wsHandler and metrics may be
// nil, in which case /health omits the cache, /ws answers 503 and /metrics is
// not mounted.
func NewRegistry(uc usecase.DirectoryUsecase, store handler.Pinger, cache handler.CacheStatus, wsHandler *ws.Handler, metrics http.Handler) *Registry {
	return &Registry{
		health:      handler.NewHealthHandler(store, cache),
		experts:     handler.NewExpertHandler(uc),
		nominations: handler.NewNominationHandler(uc),
		categories:  handler.NewCategoryHandler(uc),
		ws:          wsHandler,
		metrics:     metrics,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.experts.RegisterRoutes(app)
	r.nominations.RegisterRoutes(app)
	r.categories.RegisterRoutes(app)

	app.Get("/ws", r.ws.HandleDirectoryWS)
	if r.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.metrics))
	}
}
