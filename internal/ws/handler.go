package ws

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub    *Hub
	logger *log.Logger
}

func NewHandler(hub *Hub, logger *log.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleDirectoryWS upgrades the request and streams directory events to it.
// Upgrades are refused with 503 when no hub is running, so clients retry
// against another instance instead of holding a dead socket.
func (h *Handler) HandleDirectoryWS(c fiber.Ctx) error {
	if h == nil || h.hub.Stopped() {
		return fiber.ErrServiceUnavailable
	}

	upgrade := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logf("[WS] upgrade error | remote=%s error=%v", r.RemoteAddr, err)
			return
		}

		client := NewClient(h.hub, conn)
		if !h.hub.Register(client) {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			_ = conn.Close()
			h.logf("[WS] rejected | remote=%s reason=hub_stopped", r.RemoteAddr)
			return
		}
		h.logf("[WS] upgraded | remote=%s", r.RemoteAddr)
		go client.WritePump()
		go client.ReadPump()
	})

	return upgrade(c)
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
