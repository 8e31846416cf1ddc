package rooms

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/vovakirdan/dmchat/internal/store"
)

// Service resolves the shared chat room of a sender/recipient pair.
type Service struct {
	store store.ChatRoomStore
	// creations collapses concurrent room creation for the same unordered pair.
	creations singleflight.Group
}

// New creates a new room Service.
func New(st store.ChatRoomStore) *Service {
	return &Service{store: st}
}

// ChatID derives the chat ID for a pair from the order of first contact.
func ChatID(senderID, recipientID string) string {
	return fmt.Sprintf("%s_%s", senderID, recipientID)
}

// PairKey returns an order-independent key for a pair of participants.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// ResolveRoom returns the chat ID shared by senderID and recipientID.
// When no room exists and create is false, found is false and err is nil.
// When create is true, both directional records are created on first use.
func (s *Service) ResolveRoom(ctx context.Context, senderID, recipientID string, create bool) (chatID string, found bool, err error) {
	room, err := s.store.GetChatRoom(ctx, senderID, recipientID)
	if err == nil {
		return room.ChatID, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", false, fmt.Errorf("get chat room: %w", err)
	}
	if !create {
		return "", false, nil
	}

	// Shared by every caller of the pair, detached from the first caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := s.creations.DoChan(PairKey(senderID, recipientID), func() (any, error) {
		return s.store.CreateChatRoom(shared, ChatID(senderID, recipientID), senderID, recipientID)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
	if res.Err != nil {
		return "", false, fmt.Errorf("create chat room: %w", res.Err)
	}

	chatID, _ = res.Val.(string)
	if chatID == "" {
		return "", false, nil
	}
	return chatID, true, nil
}
