package core

import "github.com/vovakirdan/dmchat/internal/store"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandConnect marks a user online and binds the connection to it.
	CommandConnect CommandKind = iota
	// CommandDisconnect marks a user offline.
	CommandDisconnect
	// CommandSendMessage stores a direct message and notifies the recipient.
	CommandSendMessage
	// CommandHistory lists the messages exchanged by a pair.
	CommandHistory
	// CommandListUsers lists online users.
	CommandListUsers
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	User    store.User
	Message store.ChatMessage
}
