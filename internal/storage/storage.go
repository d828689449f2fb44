package storage

import (
	"context"
)

// Store defines the durable message store consumed by the relay. Appends are
// best-effort from the relay's point of view; a failed append never blocks
// delivery.
type Store interface {
	// Close closes the underlying database connection.
	Close() error

	// AppendMessage appends a chat message to the store.
	AppendMessage(ctx context.Context, message *Message) error

	// GetMessages returns all messages of a room in timestamp order.
	GetMessages(ctx context.Context, room string) ([]*Message, error)

	// GetMessagesWithPagination returns one page of a room's messages.
	GetMessagesWithPagination(ctx context.Context, room string, page, pageSize int) ([]*Message, error)
}
