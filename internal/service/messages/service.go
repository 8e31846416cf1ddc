package messages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/dmchat/internal/store"
)

var (
	// ErrRoomNotFound is returned when no chat room could be resolved for a message.
	ErrRoomNotFound = errors.New("chat room not found")
	// ErrInvalidMessage is returned when a message lacks a sender or recipient.
	ErrInvalidMessage = errors.New("invalid message")
)

// RoomResolver looks up, and optionally creates, the chat room of a pair.
type RoomResolver interface {
	ResolveRoom(ctx context.Context, senderID, recipientID string, create bool) (string, bool, error)
}

// Service persists and lists direct messages.
type Service struct {
	store store.MessageStore
	rooms RoomResolver
	now   func() time.Time
}

// New creates a new message Service.
func New(st store.MessageStore, rooms RoomResolver) *Service {
	return &Service{
		store: st,
		rooms: rooms,
		now:   time.Now,
	}
}

// Save assigns the pair's chat ID to msg and persists it.
func (s *Service) Save(ctx context.Context, msg *store.ChatMessage) (*store.ChatMessage, error) {
	if msg == nil || msg.SenderID == "" || msg.RecipientID == "" {
		return nil, ErrInvalidMessage
	}

	chatID, found, err := s.rooms.ResolveRoom(ctx, msg.SenderID, msg.RecipientID, true)
	if err != nil {
		return nil, fmt.Errorf("resolve room: %w", err)
	}
	if !found {
		return nil, ErrRoomNotFound
	}

	stored := *msg
	stored.ChatID = chatID
	if stored.Timestamp.IsZero() {
		stored.Timestamp = s.now().UTC()
	}

	if err := s.store.SaveMessage(ctx, &stored); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	return &stored, nil
}

// List returns the full history between senderID and recipientID in insertion order.
// A pair that never exchanged messages has an empty history.
func (s *Service) List(ctx context.Context, senderID, recipientID string) ([]*store.ChatMessage, error) {
	chatID, found, err := s.rooms.ResolveRoom(ctx, senderID, recipientID, false)
	if err != nil {
		return nil, fmt.Errorf("resolve room: %w", err)
	}
	if !found {
		return []*store.ChatMessage{}, nil
	}

	messages, err := s.store.ListMessagesByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []*store.ChatMessage{}
	}
	return messages, nil
}
