package presence

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/dmchat/internal/store"
)

// Service tracks whether users are online.
type Service struct {
	store store.UserStore
}

// New creates a new presence Service.
func New(st store.UserStore) *Service {
	return &Service{store: st}
}

// Connect marks the user online and stores the full record.
func (s *Service) Connect(ctx context.Context, user *store.User) (*store.User, error) {
	online := *user
	online.Status = store.StatusOnline

	if err := s.store.UpsertUser(ctx, &online); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return &online, nil
}

// Disconnect marks a stored user offline. Unknown users are ignored:
// the input is returned unchanged with found set to false.
func (s *Service) Disconnect(ctx context.Context, user *store.User) (*store.User, bool, error) {
	stored, err := s.store.GetUser(ctx, user.Nickname)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return user, false, nil
		}
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	stored.Status = store.StatusOffline
	if err := s.store.UpsertUser(ctx, stored); err != nil {
		return nil, false, fmt.Errorf("save user: %w", err)
	}
	return stored, true, nil
}

// ListConnected returns every online user.
func (s *Service) ListConnected(ctx context.Context) ([]*store.User, error) {
	users, err := s.store.ListUsersByStatus(ctx, store.StatusOnline)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
