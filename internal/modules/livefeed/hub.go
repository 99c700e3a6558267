package livefeed

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message is the frame pushed to every connected dashboard.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Hub fans attendance events out to front-desk dashboards. Connections are
// keyed by a local counter; a write failure drops the connection.
type Hub struct {
	connections map[int64]*websocket.Conn
	nextID      int64
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*websocket.Conn),
	}
}

func (h *Hub) Register(conn *websocket.Conn) int64 {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.nextID++
	h.connections[h.nextID] = conn
	return h.nextID
}

func (h *Hub) Unregister(id int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[id]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, id)
	}
}

// Broadcast writes the event to every connection. Dead connections are
// dropped; the caller never sees an error.
func (h *Hub) Broadcast(event string, payload interface{}) {
	msg := Message{Event: event, Payload: payload, At: time.Now().UTC()}

	h.mutex.RLock()
	conns := make(map[int64]*websocket.Conn, len(h.connections))
	for id, conn := range h.connections {
		conns[id] = conn
	}
	h.mutex.RUnlock()

	for id, conn := range conns {
		if conn == nil {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			h.Unregister(id)
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
