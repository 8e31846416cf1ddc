package presence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/dmchat/internal/store"
	"github.com/vovakirdan/dmchat/internal/store/mocks"
	"github.com/vovakirdan/dmchat/internal/store/sqlite"
)

func newSQLiteService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st)
}

func nicknames(users []*store.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Nickname)
	}
	return names
}

func TestPresence_ConnectDisconnectCycle(t *testing.T) {
	req := require.New(t)
	svc := newSQLiteService(t)
	ctx := context.Background()

	user, err := svc.Connect(ctx, &store.User{Nickname: "u1", FullName: "Alice", Status: store.StatusOffline})
	req.NoError(err)
	req.Equal(store.StatusOnline, user.Status)

	online, err := svc.ListConnected(ctx)
	req.NoError(err)
	req.Len(online, 1)
	req.Equal("u1", online[0].Nickname)
	req.Equal("Alice", online[0].FullName)
	req.Equal(store.StatusOnline, online[0].Status)

	offline, found, err := svc.Disconnect(ctx, &store.User{Nickname: "u1"})
	req.NoError(err)
	req.True(found)
	req.Equal(store.StatusOffline, offline.Status)
	req.Equal("Alice", offline.FullName)

	online, err = svc.ListConnected(ctx)
	req.NoError(err)
	req.NotContains(nicknames(online), "u1")

	// A user can come back online.
	_, err = svc.Connect(ctx, &store.User{Nickname: "u1", FullName: "Alice"})
	req.NoError(err)
	online, err = svc.ListConnected(ctx)
	req.NoError(err)
	req.Equal([]string{"u1"}, nicknames(online))
}

func TestPresence_TransitionsAreIdempotent(t *testing.T) {
	req := require.New(t)
	svc := newSQLiteService(t)
	ctx := context.Background()

	for range 2 {
		_, err := svc.Connect(ctx, &store.User{Nickname: "u1", FullName: "Alice"})
		req.NoError(err)
	}
	online, err := svc.ListConnected(ctx)
	req.NoError(err)
	req.Len(online, 1)

	for range 2 {
		_, found, err := svc.Disconnect(ctx, &store.User{Nickname: "u1"})
		req.NoError(err)
		req.True(found)
	}
	online, err = svc.ListConnected(ctx)
	req.NoError(err)
	req.Empty(online)
}

func TestPresence_DisconnectUnknownUserIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	mockStore := mocks.NewMockUserStore(ctrl)
	mockStore.EXPECT().GetUser(gomock.Any(), "unknown-user").Return(nil, store.ErrNotFound).Times(1)
	mockStore.EXPECT().UpsertUser(gomock.Any(), gomock.Any()).Times(0)

	input := &store.User{Nickname: "unknown-user", Status: store.StatusOnline}
	user, found, err := New(mockStore).Disconnect(context.Background(), input)

	req.NoError(err)
	req.False(found)
	req.Same(input, user)
	req.Equal(store.StatusOnline, user.Status)
}

func TestPresence_StorageErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	boom := errors.New("database is locked")

	t.Run("should propagate upsert failure on connect", func(t *testing.T) {
		mockStore := mocks.NewMockUserStore(ctrl)
		mockStore.EXPECT().UpsertUser(gomock.Any(), gomock.Any()).Return(boom).Times(1)

		_, err := New(mockStore).Connect(ctx, &store.User{Nickname: "u1"})

		require.ErrorIs(t, err, boom)
	})

	t.Run("should propagate lookup failure on disconnect", func(t *testing.T) {
		mockStore := mocks.NewMockUserStore(ctrl)
		mockStore.EXPECT().GetUser(gomock.Any(), "u1").Return(nil, boom).Times(1)

		_, _, err := New(mockStore).Disconnect(ctx, &store.User{Nickname: "u1"})

		require.ErrorIs(t, err, boom)
	})

	t.Run("should propagate list failure", func(t *testing.T) {
		mockStore := mocks.NewMockUserStore(ctrl)
		mockStore.EXPECT().ListUsersByStatus(gomock.Any(), store.StatusOnline).Return(nil, boom).Times(1)

		_, err := New(mockStore).ListConnected(ctx)

		require.ErrorIs(t, err, boom)
	})
}
