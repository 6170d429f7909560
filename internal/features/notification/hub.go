package notification

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// wsConn is the write surface the hub needs from a connection.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
}

// Hub fans live notifications out to each recipient's open websocket
// connections. Delivery is best effort; the document in Mongo is the
// durable copy. The underlying connection supports only one concurrent
// writer, so all writes happen under the exclusive lock.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[wsConn]bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[wsConn]bool),
		logger:  logger,
	}
}

func (h *Hub) Register(userID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[wsConn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) Unregister(userID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Broadcast sends the notification to every open connection of its
// recipient.
func (h *Hub) Broadcast(n *Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Warn("notification marshal failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients[n.UserID.Hex()] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("websocket write failed",
				zap.String("user", n.UserID.Hex()),
				zap.Error(err))
		}
	}
}
