package rooms

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

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

func TestResolveRoom_UnknownPairWithoutCreate(t *testing.T) {
	req := require.New(t)
	svc := newSQLiteService(t)

	chatID, found, err := svc.ResolveRoom(context.Background(), "alice", "bob", false)

	req.NoError(err)
	req.False(found)
	req.Empty(chatID)
}

func TestResolveRoom_CreatesInFirstContactOrder(t *testing.T) {
	req := require.New(t)
	svc := newSQLiteService(t)
	ctx := context.Background()

	chatID, found, err := svc.ResolveRoom(ctx, "bob", "alice", true)
	req.NoError(err)
	req.True(found)
	req.Equal("bob_alice", chatID)

	t.Run("should be found from both sides", func(t *testing.T) {
		req := require.New(t)

		forward, found, err := svc.ResolveRoom(ctx, "bob", "alice", false)
		req.NoError(err)
		req.True(found)

		reverse, found, err := svc.ResolveRoom(ctx, "alice", "bob", false)
		req.NoError(err)
		req.True(found)

		req.Equal(forward, reverse)
	})

	t.Run("should not recreate from the other side", func(t *testing.T) {
		req := require.New(t)

		again, found, err := svc.ResolveRoom(ctx, "alice", "bob", true)
		req.NoError(err)
		req.True(found)
		req.Equal("bob_alice", again)
	})
}

func TestResolveRoom_ConcurrentFirstContactYieldsOneRoom(t *testing.T) {
	req := require.New(t)
	svc := newSQLiteService(t)
	ctx := context.Background()

	const rounds = 8
	var wg sync.WaitGroup
	ids := make([]string, rounds)
	errs := make([]error, rounds)
	for i := range rounds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sender, recipient := "alice", "bob"
			if i%2 == 1 {
				sender, recipient = recipient, sender
			}
			ids[i], _, errs[i] = svc.ResolveRoom(ctx, sender, recipient, true)
		}(i)
	}
	wg.Wait()

	for i := range rounds {
		req.NoError(errs[i])
		req.Equal(ids[0], ids[i])
	}
	req.Contains([]string{"alice_bob", "bob_alice"}, ids[0])
}

func TestResolveRoom_StorageErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockChatRoomStore(ctrl)
	svc := New(mockStore)
	ctx := context.Background()
	boom := errors.New("disk on fire")

	t.Run("should propagate lookup failure", func(t *testing.T) {
		req := require.New(t)

		mockStore.EXPECT().GetChatRoom(gomock.Any(), "alice", "bob").Return(nil, boom).Times(1)
		mockStore.EXPECT().CreateChatRoom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, found, err := svc.ResolveRoom(ctx, "alice", "bob", true)

		req.ErrorIs(err, boom)
		req.False(found)
	})

	t.Run("should propagate creation failure", func(t *testing.T) {
		req := require.New(t)

		mockStore.EXPECT().GetChatRoom(gomock.Any(), "alice", "bob").Return(nil, store.ErrNotFound).Times(1)
		mockStore.EXPECT().CreateChatRoom(gomock.Any(), "alice_bob", "alice", "bob").Return("", boom).Times(1)

		_, found, err := svc.ResolveRoom(ctx, "alice", "bob", true)

		req.ErrorIs(err, boom)
		req.False(found)
	})

	t.Run("should return existing room without writing", func(t *testing.T) {
		req := require.New(t)

		mockStore.EXPECT().
			GetChatRoom(gomock.Any(), "alice", "bob").
			Return(&store.ChatRoom{ChatID: "bob_alice", SenderID: "alice", RecipientID: "bob"}, nil).
			Times(1)

		chatID, found, err := svc.ResolveRoom(ctx, "alice", "bob", true)

		req.NoError(err)
		req.True(found)
		req.Equal("bob_alice", chatID)
	})
}

func TestResolveRoom_CancelledCallerDoesNotFailOthers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockChatRoomStore(ctrl)
	svc := New(mockStore)

	entered := make(chan struct{})
	release := make(chan struct{})
	var enteredOnce sync.Once

	mockStore.EXPECT().GetChatRoom(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, store.ErrNotFound).AnyTimes()
	mockStore.EXPECT().
		CreateChatRoom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _, _ string) (string, error) {
			enteredOnce.Do(func() { close(entered) })
			<-release
			return "alice_bob", ctx.Err()
		}).
		MinTimes(1).MaxTimes(2)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := svc.ResolveRoom(firstCtx, "alice", "bob", true)
		firstErr <- err
	}()
	<-entered

	type result struct {
		chatID string
		found  bool
		err    error
	}
	second := make(chan result, 1)
	go func() {
		chatID, found, err := svc.ResolveRoom(context.Background(), "bob", "alice", true)
		second <- result{chatID, found, err}
	}()

	cancelFirst()
	req.ErrorIs(<-firstErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-second
	req.NoError(got.err)
	req.True(got.found)
	req.Equal("alice_bob", got.chatID)
}

func TestPairKey(t *testing.T) {
	require.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	require.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "bobby"))
	require.NotEqual(t, PairKey("a_b", "c"), PairKey("a", "b_c"))
}
