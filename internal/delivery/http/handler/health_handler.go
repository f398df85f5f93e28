package handler

import (
	"context"
	"time"

	"expertise-marketplace/internal/delivery/http/dto"
	"expertise-marketplace/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheStatus is the listing cache as seen by the health check.
type CacheStatus interface {
	Pinger
	Enabled() bool
}

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	statusDisabled    = "disabled"
)

type HealthHandler struct {
	store Pinger
	cache CacheStatus
}

// NewHealthHandler reports the store's reachability; a nil store is always ok.
// The cache is reported alongside but never fails the check, since requests
// bypass it when it is down.
func NewHealthHandler(store Pinger, cache CacheStatus) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	body := dto.HealthResponse{Status: statusOK, Cache: h.cacheState(ctx)}
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			body.Status = statusUnavailable
			return response.JSON(c, fiber.StatusServiceUnavailable, body)
		}
	}
	return response.JSON(c, fiber.StatusOK, body)
}

func (h *HealthHandler) cacheState(ctx context.Context) string {
	switch {
	case h.cache == nil:
		return ""
	case !h.cache.Enabled():
		return statusDisabled
	case h.cache.Ping(ctx) != nil:
		return statusUnavailable
	default:
		return statusOK
	}
}
