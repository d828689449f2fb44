package relay

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pairtalk/pairtalk/internal/common/config"
	"go.uber.org/zap"
)

var (
	ErrConnClosed = errors.New("connection closed")
	ErrQueueFull  = errors.New("send queue full")
)

// wsConn wraps one WebSocket transport session. All writes go through a
// bounded queue drained by a single writer goroutine; gorilla connections
// allow at most one concurrent writer.
type wsConn struct {
	id       string
	identity string
	room     string
	ws       *websocket.Conn
	logger   *zap.Logger

	sendq     chan []byte
	done      chan struct{}
	closeOnce sync.Once

	writeWait time.Duration
	pongWait  time.Duration
	maxSize   int64
}

func newWSConn(ws *websocket.Conn, identity, roomID string, cfg config.WebSocketConfig, logger *zap.Logger) *wsConn {
	id := uuid.NewString()
	return &wsConn{
		id:        id,
		identity:  identity,
		room:      roomID,
		ws:        ws,
		logger:    logger.Named("conn").With(zap.String("conn", id), zap.String("identity", identity)),
		sendq:     make(chan []byte, cfg.SendQueueSize),
		done:      make(chan struct{}),
		writeWait: cfg.WriteWait,
		pongWait:  cfg.PongWait,
		maxSize:   cfg.MaxMessageSize,
	}
}

func (c *wsConn) ID() string       { return c.id }
func (c *wsConn) Identity() string { return c.identity }

// Send enqueues an outbound frame without blocking. Frames to a closed
// connection or past a full queue are the caller's to drop.
func (c *wsConn) Send(msg []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.sendq <- msg:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		return ErrQueueFull
	}
}

// Close terminates the connection. Safe to call more than once.
func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings. It owns all writes to the transport.
func (c *wsConn) writePump() {
	ticker := time.NewTicker(c.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.sendq:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop delivers inbound frames to handler one at a time, preserving the
// arrival order of frames from this connection. It returns when the
// transport closes.
func (c *wsConn) readLoop(handler func(raw []byte)) {
	c.ws.SetReadLimit(c.maxSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", zap.Error(err))
			}
			return
		}
		handler(raw)
	}
}
