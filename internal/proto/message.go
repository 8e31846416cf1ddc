package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeAddUser    = "user.add"
	InboundTypeDisconnect = "user.disconnect"
	InboundTypeChat       = "chat"
	InboundTypeHistory    = "history"
	InboundTypeUsers      = "users"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventUser         = "user"
	EventUsers        = "users"
	EventMessage      = "message"
	EventMessageSaved = "message_saved"
	EventHistory      = "history"
)

// UserData identifies a user connecting or disconnecting.
type UserData struct {
	Nickname string `json:"nickname" validate:"required,max=64,nickname"`
	FullName string `json:"full_name,omitempty" validate:"max=128"`
}

// ChatData is a direct message from the client. SenderID defaults to the
// nickname the connection was bound to with user.add.
type ChatData struct {
	SenderID    string `json:"sender_id,omitempty" validate:"omitempty,max=64,nickname"`
	RecipientID string `json:"recipient_id" validate:"required,max=64,nickname"`
	Content     string `json:"content" validate:"required"`
}

// HistoryData requests the messages exchanged with a peer.
type HistoryData struct {
	SenderID    string `json:"sender_id,omitempty" validate:"omitempty,max=64,nickname"`
	RecipientID string `json:"recipient_id" validate:"required,max=64,nickname"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventUserData describes a user and its presence status.
type EventUserData struct {
	Nickname string `json:"nickname"`
	FullName string `json:"full_name"`
	Status   string `json:"status"`
}

// EventMessageData is a stored direct message.
type EventMessageData struct {
	ID          int64  `json:"id"`
	ChatID      string `json:"chat_id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
	TS          int64  `json:"ts"`
}

// EventHistoryData carries the history of a pair.
type EventHistoryData struct {
	SenderID    string             `json:"sender_id"`
	RecipientID string             `json:"recipient_id"`
	Messages    []EventMessageData `json:"messages"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
