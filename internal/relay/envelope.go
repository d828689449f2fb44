package relay

import (
	"encoding/json"

	"github.com/pairtalk/pairtalk/internal/common/cnst"
	"github.com/tidwall/gjson"
)

// broadcastEnvelope is the outbound shape of a room broadcast.
type broadcastEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// peekKind extracts the envelope kind tag without decoding the whole frame.
func peekKind(raw []byte) (cnst.Kind, bool) {
	if !gjson.ValidBytes(raw) {
		return "", false
	}
	v := gjson.GetBytes(raw, "type")
	if v.Type != gjson.String {
		return "", false
	}
	return cnst.Kind(v.String()), true
}

// peekMessage extracts the textual content field of a broadcast envelope.
func peekMessage(raw []byte) (string, bool) {
	v := gjson.GetBytes(raw, "message")
	if v.Type != gjson.String {
		return "", false
	}
	return v.String(), true
}

// rewriteDirected re-encodes a directed frame with the kind and sender fields
// forced to the router's values; all other client fields pass through.
func rewriteDirected(raw []byte, kind cnst.Kind, sender string) ([]byte, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["type"] = kind.String()
	fields["sender"] = sender
	return json.Marshal(fields)
}
