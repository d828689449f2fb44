package room

import (
	"sync"

	"github.com/pairtalk/pairtalk/internal/relay/session"
	"go.uber.org/zap"
)

// Hub is the per-room broadcast fanout. A room exists implicitly as soon as a
// connection subscribes to it and disappears when the last subscriber leaves;
// there is no explicit room lifecycle.
type Hub struct {
	logger *zap.Logger
	mu     sync.RWMutex
	rooms  map[string]map[string]session.Conn
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger.Named("room.hub"),
		rooms:  make(map[string]map[string]session.Conn),
	}
}

// Subscribe adds conn to the room's subscriber set.
func (h *Hub) Subscribe(room string, conn session.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[string]session.Conn)
		h.rooms[room] = subs
	}
	subs[conn.ID()] = conn
}

// Unsubscribe removes conn from the room's subscriber set if present.
func (h *Hub) Unsubscribe(room string, conn session.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(subs, conn.ID())
	if len(subs) == 0 {
		delete(h.rooms, room)
	}
}

// Publish delivers payload to every current subscriber of the room, the
// sender included. A subscriber whose Send fails is skipped; delivery to the
// remaining subscribers proceeds. Returns the number of deliveries.
func (h *Hub) Publish(room string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, conn := range h.rooms[room] {
		if err := conn.Send(payload); err != nil {
			h.logger.Debug("dropped broadcast to subscriber",
				zap.String("room", room),
				zap.String("conn", conn.ID()),
				zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

// Subscribers returns the current subscriber count of a room.
func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}
