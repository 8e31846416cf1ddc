//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("not found")

// Status is a user's presence state.
type Status string

const (
	StatusOnline  Status = "ONLINE"
	StatusOffline Status = "OFFLINE"
)

// User represents a chat participant keyed by nickname.
type User struct {
	Nickname string
	FullName string
	Status   Status
}

// ChatRoom is one directional record of a pair's shared room.
// Two records with swapped sender/recipient always share a ChatID.
type ChatRoom struct {
	ChatID      string
	SenderID    string
	RecipientID string
}

// ChatMessage represents a persisted direct message.
type ChatMessage struct {
	ID          int64
	ChatID      string
	SenderID    string
	RecipientID string
	Content     string
	Timestamp   time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// UpsertUser creates the user or overwrites the stored record with the same nickname.
	UpsertUser(ctx context.Context, user *User) error

	// GetUser retrieves a user by nickname. Returns ErrNotFound when absent.
	GetUser(ctx context.Context, nickname string) (*User, error)

	// ListUsersByStatus lists users with the given status in insertion order.
	ListUsersByStatus(ctx context.Context, status Status) ([]*User, error)
}

// ChatRoomStore handles chat room persistence.
type ChatRoomStore interface {
	// GetChatRoom retrieves the directional record for (senderID, recipientID).
	// Returns ErrNotFound when absent.
	GetChatRoom(ctx context.Context, senderID, recipientID string) (*ChatRoom, error)

	// CreateChatRoom stores both directional records for the pair under chatID.
	// Records that already exist are kept, and the chat ID stored for
	// (senderID, recipientID) after the write is returned.
	CreateChatRoom(ctx context.Context, chatID, senderID, recipientID string) (string, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message and sets its ID.
	SaveMessage(ctx context.Context, msg *ChatMessage) error

	// ListMessagesByChatID retrieves every message of a chat in insertion order.
	ListMessagesByChatID(ctx context.Context, chatID string) ([]*ChatMessage, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	ChatRoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
