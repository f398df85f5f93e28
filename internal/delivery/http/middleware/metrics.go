package middleware

import (
	"time"

	"expertise-marketplace/internal/metrics"

	"github.com/gofiber/fiber/v3"
)

type MetricsMiddleware struct {
	metrics *metrics.Manager
}

func NewMetricsMiddleware(m *metrics.Manager) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Middleware records requests by route pattern, not raw path, so ids do not
// create new series.
func (m *MetricsMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		m.metrics.ObserveHTTP(routePattern(c), c.Method(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}
