package session

// Conn is the send capability of one active connection. Implementations must
// make Send safe to call from any goroutine and must make it fail fast once
// the connection has begun closing.
type Conn interface {
	// ID returns the unique handle ID of this connection.
	ID() string

	// Identity returns the authenticated identity owning the connection.
	Identity() string

	// Send enqueues an outbound frame. It returns an error when the
	// connection is closed or its outbound queue is full; the frame is
	// dropped in both cases.
	Send(msg []byte) error

	// Close terminates the connection.
	Close() error
}
