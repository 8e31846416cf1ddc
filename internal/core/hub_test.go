package core

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/dmchat/internal/store"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestHubSendToUserReachesOnlyBoundSessions(t *testing.T) {
	hub, _ := startHub(t)

	alicePhone := NewClient("a1", 0)
	aliceLaptop := NewClient("a2", 0)
	bob := NewClient("b", 0)
	for _, c := range []*Client{alicePhone, aliceLaptop, bob} {
		hub.RegisterClient(c)
	}
	hub.BindUser(alicePhone, "alice")
	hub.BindUser(aliceLaptop, "alice")
	hub.BindUser(bob, "bob")

	hub.SendToUser("alice", &Event{
		Kind:    EventMessage,
		Message: &store.ChatMessage{SenderID: "bob", RecipientID: "alice", Content: "hi"},
	})
	hub.Broadcast(&Event{Kind: EventUserStatus, User: &store.User{Nickname: "carol", Status: store.StatusOnline}})

	for _, c := range []*Client{alicePhone, aliceLaptop} {
		ev := mustEvent(t, c.Events, EventMessage)
		if ev.Message.Content != "hi" || ev.Message.SenderID != "bob" {
			t.Fatalf("unexpected message event: %+v", ev.Message)
		}
	}

	// Deliveries are routed in order, so bob's first event must be the broadcast.
	select {
	case ev := <-bob.Events:
		if ev.Kind != EventUserStatus || ev.User.Nickname != "carol" {
			t.Fatalf("expected carol status broadcast first, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bob did not receive broadcast")
	}
}

func TestHubRebindMovesSession(t *testing.T) {
	hub, _ := startHub(t)

	c := NewClient("c", 0)
	hub.RegisterClient(c)
	hub.BindUser(c, "alice")
	hub.BindUser(c, "alicia")

	hub.SendToUser("alice", &Event{Kind: EventMessage, Message: &store.ChatMessage{Content: "old"}})
	hub.SendToUser("alicia", &Event{Kind: EventMessage, Message: &store.ChatMessage{Content: "new"}})

	ev := mustEvent(t, c.Events, EventMessage)
	if ev.Message.Content != "new" {
		t.Fatalf("expected only the new nickname to be delivered, got %q", ev.Message.Content)
	}

	hub.BindUser(c, "")
	hub.SendToUser("alicia", &Event{Kind: EventMessage, Message: &store.ChatMessage{Content: "after unbind"}})
	mustNoEvent(t, c.Events, 100*time.Millisecond)
}

func TestHubUnregisterClosesEvents(t *testing.T) {
	hub, _ := startHub(t)

	c := NewClient("c", 0)
	hub.RegisterClient(c)
	hub.BindUser(c, "alice")
	hub.UnregisterClient(c)

	select {
	case _, ok := <-c.Events:
		if ok {
			t.Fatal("expected closed events channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}

	// Deliveries to a gone client are dropped silently.
	hub.SendToUser("alice", &Event{Kind: EventMessage, Message: &store.ChatMessage{Content: "late"}})
	hub.SendToClient(c, ErrorEvent(ErrCodeBadRequest, "late"))
}

func TestHubSendToClient(t *testing.T) {
	hub, _ := startHub(t)

	a := NewClient("a", 0)
	b := NewClient("b", 0)
	hub.RegisterClient(a)
	hub.RegisterClient(b)

	hub.SendToClient(a, ErrorEvent(ErrCodeBadRequest, "nope"))

	ev := mustEvent(t, a.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", ev)
	}
	mustNoEvent(t, b.Events, 100*time.Millisecond)
}

func TestHubStopsOnCancel(t *testing.T) {
	hub, cancel := startHub(t)

	c := NewClient("c", 0)
	hub.RegisterClient(c)
	cancel()

	select {
	case _, ok := <-c.Events:
		if ok {
			t.Fatal("expected closed events channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after cancel")
	}

	// Calls after shutdown must not block.
	done := make(chan struct{})
	go func() {
		hub.RegisterClient(NewClient("late", 0))
		hub.Broadcast(&Event{Kind: EventUsers})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after shutdown")
	}
}

func TestHubDropsForSlowConsumer(t *testing.T) {
	hub, _ := startHub(t)

	slow := NewClient("slow", 1)
	other := NewClient("other", 0)
	hub.RegisterClient(slow)
	hub.RegisterClient(other)
	hub.BindUser(slow, "slow")

	for range 5 {
		hub.SendToUser("slow", &Event{Kind: EventMessage, Message: &store.ChatMessage{}})
	}
	hub.SendToClient(other, &Event{Kind: EventUsers})

	// The routing loop must not stall on the full channel.
	mustEvent(t, other.Events, EventUsers)
	if got := len(slow.Events); got != 1 {
		t.Fatalf("expected 1 buffered event for slow consumer, got %d", got)
	}
}
