package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// AccessLogMiddleware tags every request with an id and, below warn level,
// writes one line per request keyed by its route pattern.
type AccessLogMiddleware struct {
	logger  *log.Logger
	enabled bool
}

func NewAccessLogMiddleware(logger *log.Logger, level string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger, enabled: accessLogLevel(level)}
}

func accessLogLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warn", "warning", "error":
		return false
	default:
		return true
	}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDHeader, rid)

		err := c.Next()
		if m == nil || !m.enabled {
			return err
		}

		m.logger.Printf(
			"[HTTP] %s %s | rid=%s path=%s status=%d latency=%s ip=%s resp_bytes=%d",
			c.Method(), routePattern(c), rid, c.Path(), c.Response().StatusCode(),
			time.Since(start).Round(time.Microsecond), c.IP(), len(c.Response().Body()),
		)
		return err
	}
}

// routePattern names the matched route, e.g. /experts/:id, or "unmatched".
// When no route matched, Route still points at the root Use mount ("/").
func routePattern(c fiber.Ctx) string {
	r := c.Route()
	if r == nil || r.Path == "" || (r.Path == "/" && c.Path() != "/") {
		return "unmatched"
	}
	return r.Path
}
