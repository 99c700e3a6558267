package livefeed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gymstudio/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from the back office on another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub     *Hub
	loggerf func(format string, args ...interface{})
}

func NewHandler(hub *Hub, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{hub: hub, loggerf: loggerf}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/livefeed", h.Connect)
}

// Connect upgrades to a websocket and holds it until the client leaves.
// The feed is push-only; inbound frames are read and discarded so pings
// and close frames keep working.
func (h *Handler) Connect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "UPGRADE_FAILED", "websocket upgrade failed")
		return
	}

	id := h.hub.Register(conn)
	h.loggerf("livefeed connected id=%d total=%d", id, h.hub.ConnectionCount())

	defer func() {
		h.hub.Unregister(id)
		h.loggerf("livefeed disconnected id=%d total=%d", id, h.hub.ConnectionCount())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
