package room

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type captureConn struct {
	id       string
	identity string
	frames   [][]byte
	sendErr  error
}

func (c *captureConn) ID() string       { return c.id }
func (c *captureConn) Identity() string { return c.identity }
func (c *captureConn) Send(msg []byte) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.frames = append(c.frames, msg)
	return nil
}
func (c *captureConn) Close() error { return nil }

func TestPublishIncludesSender(t *testing.T) {
	h := NewHub(zap.NewNop())

	alice := &captureConn{id: "c1", identity: "alice"}
	bob := &captureConn{id: "c2", identity: "bob"}
	h.Subscribe("alice_bob", alice)
	h.Subscribe("alice_bob", bob)

	n := h.Publish("alice_bob", []byte("hello"))
	assert.Equal(t, 2, n)
	assert.Len(t, alice.frames, 1)
	assert.Len(t, bob.frames, 1)
}

func TestPublishSkipsFailedSubscriber(t *testing.T) {
	h := NewHub(zap.NewNop())

	ok := &captureConn{id: "c1", identity: "alice"}
	broken := &captureConn{id: "c2", identity: "bob", sendErr: errors.New("closing")}
	h.Subscribe("alice_bob", ok)
	h.Subscribe("alice_bob", broken)

	n := h.Publish("alice_bob", []byte("hello"))
	assert.Equal(t, 1, n)
	assert.Len(t, ok.frames, 1)
}

func TestPublishUnknownRoom(t *testing.T) {
	h := NewHub(zap.NewNop())
	assert.Equal(t, 0, h.Publish("nobody_noone", []byte("x")))
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub(zap.NewNop())

	alice := &captureConn{id: "c1", identity: "alice"}
	bob := &captureConn{id: "c2", identity: "bob"}
	h.Subscribe("alice_bob", alice)
	h.Subscribe("alice_bob", bob)
	assert.Equal(t, 2, h.Subscribers("alice_bob"))

	h.Unsubscribe("alice_bob", alice)
	assert.Equal(t, 1, h.Subscribers("alice_bob"))
	n := h.Publish("alice_bob", []byte("x"))
	assert.Equal(t, 1, n)
	assert.Empty(t, alice.frames)

	// removing the last subscriber drops the room
	h.Unsubscribe("alice_bob", bob)
	assert.Equal(t, 0, h.Subscribers("alice_bob"))

	// unsubscribing from a room never joined is a no-op
	h.Unsubscribe("ghost_room", alice)
}
