package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// BroadcastMessage is the envelope fanned out to subscribers after
// every mutation.
type BroadcastMessage struct {
	Type    string `json:"type"`
	Message Record `json:"message"`
}

// Hub fans every post-mutation record out to websocket subscribers.
// Sends are fire-and-forget: a slow or dead subscriber is dropped,
// never waited on by the mutation pipeline.
type Hub struct {
	subscribers map[string]*websocket.Conn
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]*websocket.Conn),
		logger:      logger,
	}
}

func (h *Hub) Subscribe(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[id] = conn
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
}

// Send implements Broadcaster.
func (h *Hub) Send(ctx context.Context, record Record) {
	data, err := json.Marshal(BroadcastMessage{Type: "send", Message: record})
	if err != nil {
		h.logger.Error("failed to marshal broadcast", zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make(map[string]*websocket.Conn, len(h.subscribers))
	for id, conn := range h.subscribers {
		conns[id] = conn
	}
	h.mu.RUnlock()

	for id, conn := range conns {
		// Background context: a caller disconnecting must not cancel
		// fan-out to everyone else.
		if err := conn.Write(context.Background(), websocket.MessageText, data); err != nil {
			h.logger.Debug("dropping subscriber",
				zap.String("subscriber", id),
				zap.Error(err))
			h.Unsubscribe(id)
		}
	}
}

// Shutdown closes every subscriber connection.
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.subscribers {
		conn.Close(websocket.StatusGoingAway, "Server closing")
		delete(h.subscribers, id)
	}
}
