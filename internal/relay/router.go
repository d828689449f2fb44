package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pairtalk/pairtalk/internal/common/cnst"
	"github.com/pairtalk/pairtalk/internal/relay/room"
	"github.com/pairtalk/pairtalk/internal/relay/session"
	"github.com/pairtalk/pairtalk/internal/storage"
	"github.com/pairtalk/pairtalk/pkg/metrics"
	"go.uber.org/zap"
)

type handlerFunc func(ctx context.Context, sender, roomID string, kind cnst.Kind, raw []byte)

// Router classifies each inbound frame and dispatches it to the room
// broadcaster or point-to-point through the session registry. Frames that
// cannot be routed are dropped and logged; no error ever travels back to the
// sender.
type Router struct {
	logger   *zap.Logger
	registry *session.Registry
	hub      *room.Hub
	store    storage.Store
	metrics  *metrics.Metrics
	handlers map[cnst.Kind]handlerFunc
}

// NewRouter creates a router wired to its collaborators
func NewRouter(logger *zap.Logger, registry *session.Registry, hub *room.Hub, store storage.Store, m *metrics.Metrics) *Router {
	r := &Router{
		logger:   logger.Named("router"),
		registry: registry,
		hub:      hub,
		store:    store,
		metrics:  m,
	}
	r.handlers = map[cnst.Kind]handlerFunc{
		cnst.KindChatMessage:   r.handleBroadcast,
		cnst.KindDirectMessage: r.handleDirected,
		cnst.KindWebRTCOffer:   r.handleDirected,
		cnst.KindWebRTCAnswer:  r.handleDirected,
		cnst.KindWebRTCICE:     r.handleDirected,
		cnst.KindCallRequest:   r.handleDirected,
		cnst.KindCallAccepted:  r.handleDirected,
		cnst.KindCallRejected:  r.handleDirected,
		cnst.KindHangUp:        r.handleDirected,
	}
	return r
}

// Route processes one inbound frame from sender on roomID. Unknown kinds and
// malformed frames are dropped and logged.
func (r *Router) Route(ctx context.Context, sender, roomID string, raw []byte) {
	kind, ok := peekKind(raw)
	if !ok {
		r.logger.Warn("dropped malformed frame",
			zap.String("sender", sender),
			zap.String("room", roomID))
		r.metrics.FrameRouted("malformed", metrics.OutcomeDropped)
		return
	}
	handler, known := r.handlers[kind]
	if !known {
		r.logger.Warn("dropped frame with unknown kind",
			zap.String("kind", kind.String()),
			zap.String("sender", sender),
			zap.String("room", roomID))
		r.metrics.FrameRouted(kind.String(), metrics.OutcomeDropped)
		return
	}
	handler(ctx, sender, roomID, kind, raw)
}

// handleBroadcast persists the message best-effort and fans it out to every
// room subscriber, the sender included.
func (r *Router) handleBroadcast(ctx context.Context, sender, roomID string, kind cnst.Kind, raw []byte) {
	content, ok := peekMessage(raw)
	if !ok {
		r.logger.Warn("dropped broadcast without message field",
			zap.String("sender", sender),
			zap.String("room", roomID))
		r.metrics.FrameRouted(kind.String(), metrics.OutcomeDropped)
		return
	}

	// Persistence is never on the delivery path: a failed append is logged
	// and the fanout proceeds.
	if err := r.store.AppendMessage(ctx, &storage.Message{
		Room:      roomID,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		r.logger.Error("failed to persist message",
			zap.String("room", roomID),
			zap.String("sender", sender),
			zap.Error(err))
		r.metrics.StoreAppendFailed()
	}

	out, err := json.Marshal(broadcastEnvelope{
		Type:    kind.String(),
		Message: content,
		Sender:  sender,
	})
	if err != nil {
		r.logger.Error("failed to encode broadcast", zap.Error(err))
		r.metrics.FrameRouted(kind.String(), metrics.OutcomeDropped)
		return
	}

	n := r.hub.Publish(roomID, out)
	r.metrics.FrameRouted(kind.String(), metrics.OutcomeDelivered)
	r.metrics.Delivered(kind.String(), n)
}

// handleDirected forwards the frame to the one room participant that is not
// the sender, bypassing the broadcaster. A recipient that is not registered,
// or whose handle fails the send, means the frame is silently dropped.
func (r *Router) handleDirected(_ context.Context, sender, roomID string, kind cnst.Kind, raw []byte) {
	recipient, err := room.Other(roomID, sender)
	if err != nil {
		r.logger.Warn("dropped directed frame for unresolvable room",
			zap.String("room", roomID),
			zap.String("sender", sender),
			zap.Error(err))
		r.metrics.FrameRouted(kind.String(), metrics.OutcomeDropped)
		return
	}

	conn, ok := r.registry.Get(recipient)
	if !ok {
		r.logger.Debug("recipient not connected",
			zap.String("kind", kind.String()),
			zap.String("recipient", recipient),
			zap.String("sender", sender))
		r.metrics.FrameRouted(kind.String(), metrics.OutcomeDropped)
		return
	}

	out, err := rewriteDirected(raw, kind, sender)
	if err != nil {
		r.logger.Warn("dropped undecodable directed frame",
			zap.String("sender", sender),
			zap.Error(err))
		r.metrics.FrameRouted(kind.String(), metrics.OutcomeDropped)
		return
	}

	// The handle may have begun closing between lookup and send; the send is
	// attempted and the frame dropped on failure.
	if err := conn.Send(out); err != nil {
		r.logger.Debug("dropped directed frame to closing connection",
			zap.String("recipient", recipient),
			zap.Error(err))
		r.metrics.FrameRouted(kind.String(), metrics.OutcomeDropped)
		return
	}
	r.metrics.FrameRouted(kind.String(), metrics.OutcomeDelivered)
	r.metrics.Delivered(kind.String(), 1)
}
