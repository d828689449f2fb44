package relay

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pairtalk/pairtalk/internal/auth"
	"github.com/pairtalk/pairtalk/internal/common/config"
	"github.com/pairtalk/pairtalk/internal/relay/room"
	"github.com/pairtalk/pairtalk/internal/relay/session"
	"github.com/pairtalk/pairtalk/internal/storage"
	"github.com/pairtalk/pairtalk/pkg/metrics"
	"go.uber.org/zap"
)

// Server owns the connection lifecycle: it authenticates each inbound
// WebSocket upgrade, registers the identity, subscribes the connection to its
// room and feeds every inbound frame to the router.
type Server struct {
	logger    *zap.Logger
	cfg       config.WebSocketConfig
	validator auth.Validator
	registry  *session.Registry
	hub       *room.Hub
	router    *Router
	metrics   *metrics.Metrics
	upgrader  websocket.Upgrader
}

// NewServer wires the relay components together
func NewServer(logger *zap.Logger, cfg config.WebSocketConfig, validator auth.Validator, store storage.Store, m *metrics.Metrics) *Server {
	logger = logger.Named("relay")
	registry := session.NewRegistry(logger)
	hub := room.NewHub(logger)
	return &Server{
		logger:    logger,
		cfg:       cfg,
		validator: validator,
		registry:  registry,
		hub:       hub,
		router:    NewRouter(logger, registry, hub, store, m),
		metrics:   m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   cfg.ReadBufferSize,
			WriteBufferSize:  cfg.WriteBufferSize,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				// Browser clients connect from a separately hosted frontend.
				return true
			},
		},
	}
}

// RegisterRoutes registers the relay endpoints on a gin engine
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health_check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws/chat/:room", s.handleChat)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// handleChat runs the full lifecycle of one chat connection. An invalid or
// missing credential refuses the upgrade with no payload beyond the status:
// the client observes only that the handshake never completed.
func (s *Server) handleChat(c *gin.Context) {
	roomID := c.Param("room")

	cred, err := auth.CredentialFromQuery(c.Request.URL.Query())
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	identity, err := s.validator.Validate(c.Request.Context(), cred)
	if err != nil {
		s.logger.Warn("rejected connection",
			zap.String("room", roomID),
			zap.Error(err))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	conn := newWSConn(ws, identity, roomID, s.cfg, s.logger)
	s.hub.Subscribe(roomID, conn)
	s.registry.Set(identity, conn)
	s.metrics.ConnOpened()
	s.logger.Info("connection established",
		zap.String("identity", identity),
		zap.String("room", roomID),
		zap.String("conn", conn.ID()))

	go conn.writePump()

	// Frames from this connection are handled sequentially, in arrival
	// order, on this goroutine.
	conn.readLoop(func(raw []byte) {
		s.router.Route(c.Request.Context(), identity, roomID, raw)
	})

	s.hub.Unsubscribe(roomID, conn)
	removed := s.registry.RemoveIfCurrent(identity, conn)
	_ = conn.Close()
	s.metrics.ConnClosed()
	s.logger.Info("connection closed",
		zap.String("identity", identity),
		zap.String("room", roomID),
		zap.String("conn", conn.ID()),
		zap.Bool("was_current", removed))
}

// Registry exposes the session registry, primarily for tests and admin
// introspection.
func (s *Server) Registry() *session.Registry {
	return s.registry
}
