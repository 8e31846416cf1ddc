// Package chat exposes the public chat operations and fans their results out
// to connected clients.
package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/dmchat/internal/core"
	"github.com/vovakirdan/dmchat/internal/store"
)

// Presence tracks online users.
type Presence interface {
	Connect(ctx context.Context, user *store.User) (*store.User, error)
	Disconnect(ctx context.Context, user *store.User) (*store.User, bool, error)
	ListConnected(ctx context.Context) ([]*store.User, error)
}

// Messages stores and lists direct messages.
type Messages interface {
	Save(ctx context.Context, msg *store.ChatMessage) (*store.ChatMessage, error)
	List(ctx context.Context, senderID, recipientID string) ([]*store.ChatMessage, error)
}

// Notifier delivers events to connected clients.
type Notifier interface {
	Broadcast(event *core.Event)
	SendToUser(nickname string, event *core.Event)
}

// Service is the operation surface shared by the REST and WebSocket transports.
type Service struct {
	presence Presence
	messages Messages
	notifier Notifier
	log      *zerolog.Logger
}

// New creates a chat Service. A nil notifier disables fan-out.
func New(presence Presence, messages Messages, notifier Notifier, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		presence: presence,
		messages: messages,
		notifier: notifier,
		log:      logger,
	}
}

// ConnectUser marks the user online and announces it to every client.
func (s *Service) ConnectUser(ctx context.Context, user store.User) (*store.User, error) {
	online, err := s.presence.Connect(ctx, &user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("nickname", online.Nickname).Msg("user connected")
	s.broadcast(&core.Event{Kind: core.EventUserStatus, User: online})
	return online, nil
}

// DisconnectUser marks the user offline. Unknown users are returned unchanged
// and nothing is announced.
func (s *Service) DisconnectUser(ctx context.Context, user store.User) (*store.User, error) {
	offline, found, err := s.presence.Disconnect(ctx, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		s.log.Debug().Str("nickname", user.Nickname).Msg("disconnect for unknown user ignored")
		return offline, nil
	}

	s.log.Info().Str("nickname", offline.Nickname).Msg("user disconnected")
	s.broadcast(&core.Event{Kind: core.EventUserStatus, User: offline})
	return offline, nil
}

// ListConnectedUsers returns every online user.
func (s *Service) ListConnectedUsers(ctx context.Context) ([]*store.User, error) {
	return s.presence.ListConnected(ctx)
}

// SendMessage stores the message and notifies the recipient's sessions.
func (s *Service) SendMessage(ctx context.Context, msg store.ChatMessage) (*store.ChatMessage, error) {
	saved, err := s.messages.Save(ctx, &msg)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Int64("message_id", saved.ID).
		Str("chat_id", saved.ChatID).
		Str("sender_id", saved.SenderID).
		Str("recipient_id", saved.RecipientID).
		Msg("message stored")

	if s.notifier != nil {
		s.notifier.SendToUser(saved.RecipientID, &core.Event{Kind: core.EventMessage, Message: saved})
	}
	return saved, nil
}

// ListMessages returns the history between two users, possibly empty.
func (s *Service) ListMessages(ctx context.Context, senderID, recipientID string) ([]*store.ChatMessage, error) {
	return s.messages.List(ctx, senderID, recipientID)
}

func (s *Service) broadcast(event *core.Event) {
	if s.notifier != nil {
		s.notifier.Broadcast(event)
	}
}
