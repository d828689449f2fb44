package cnst

// Kind tags every envelope exchanged over a chat connection.
type Kind string

const (
	// KindChatMessage is fanned out to the whole room and persisted.
	KindChatMessage Kind = "chat_message"

	// Directed kinds are forwarded point-to-point to the other room
	// participant and never persisted.
	KindDirectMessage Kind = "direct_message"
	KindWebRTCOffer   Kind = "webrtc_offer"
	KindWebRTCAnswer  Kind = "webrtc_answer"
	KindWebRTCICE     Kind = "webrtc_ice_candidate"
	KindCallRequest   Kind = "call_request"
	KindCallAccepted  Kind = "call_accepted"
	KindCallRejected  Kind = "call_rejected"
	KindHangUp        Kind = "hang_up"
)

func (k Kind) String() string {
	return string(k)
}

// DirectedKinds is the closed set of point-to-point envelope kinds.
var DirectedKinds = map[Kind]struct{}{
	KindDirectMessage: {},
	KindWebRTCOffer:   {},
	KindWebRTCAnswer:  {},
	KindWebRTCICE:     {},
	KindCallRequest:   {},
	KindCallAccepted:  {},
	KindCallRejected:  {},
	KindHangUp:        {},
}

// IsDirected reports whether k is delivered to exactly one recipient.
func (k Kind) IsDirected() bool {
	_, ok := DirectedKinds[k]
	return ok
}

// IsBroadcast reports whether k is fanned out to the whole room.
func (k Kind) IsBroadcast() bool {
	return k == KindChatMessage
}

// Valid reports whether k belongs to the closed envelope kind set.
func (k Kind) Valid() bool {
	return k.IsBroadcast() || k.IsDirected()
}
