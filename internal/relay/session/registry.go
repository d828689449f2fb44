package session

import (
	"sync"

	"go.uber.org/zap"
)

// Registry maps each identity to its single active connection. It is scoped
// to the relay process lifetime and holds no durable state: a restart starts
// from an empty table.
type Registry struct {
	logger *zap.Logger
	mu     sync.RWMutex
	conns  map[string]Conn
}

// NewRegistry creates an empty in-memory registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger: logger.Named("session.registry"),
		conns:  make(map[string]Conn),
	}
}

// Set registers conn as the active connection for identity. Any previous
// connection for the same identity is silently superseded; last connect wins.
func (r *Registry) Set(identity string, conn Conn) {
	r.mu.Lock()
	prev, had := r.conns[identity]
	r.conns[identity] = conn
	r.mu.Unlock()

	if had && prev.ID() != conn.ID() {
		r.logger.Debug("superseded existing connection",
			zap.String("identity", identity),
			zap.String("old_conn", prev.ID()),
			zap.String("new_conn", conn.ID()))
	}
}

// Get returns the active connection for identity, if any.
func (r *Registry) Get(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[identity]
	return conn, ok
}

// RemoveIfCurrent deletes the entry for identity only when the stored handle
// is still conn. It reports whether a deletion happened. A disconnect of a
// connection that was already superseded must not evict the newer entry.
func (r *Registry) RemoveIfCurrent(identity string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[identity]
	if !ok || current.ID() != conn.ID() {
		return false
	}
	delete(r.conns, identity)
	return true
}

// Len returns the number of registered identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}
