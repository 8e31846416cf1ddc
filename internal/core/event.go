package core

import "github.com/vovakirdan/dmchat/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserStatus notifies every client about a user going online or offline.
	EventUserStatus EventKind = iota
	// EventMessage notifies a recipient about a new direct message.
	EventMessage
	// EventMessageSaved returns the stored message to its sender.
	EventMessageSaved
	// EventHistory delivers the messages exchanged by a pair.
	EventHistory
	// EventUsers delivers the list of online users.
	EventUsers
	// EventError notifies a client about a failed command.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	User     *store.User
	Users    []*store.User
	Message  *store.ChatMessage
	Messages []*store.ChatMessage
	Error    *CoreError

	// SenderID and RecipientID name the pair of a history event.
	SenderID    string
	RecipientID string
}

// ErrorEvent wraps a CoreError into an event.
func ErrorEvent(code, msg string) *Event {
	return &Event{Kind: EventError, Error: NewError(code, msg)}
}
