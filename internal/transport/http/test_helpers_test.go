package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/dmchat/internal/chat"
	"github.com/vovakirdan/dmchat/internal/config"
	"github.com/vovakirdan/dmchat/internal/core"
	"github.com/vovakirdan/dmchat/internal/proto"
	"github.com/vovakirdan/dmchat/internal/service/messages"
	"github.com/vovakirdan/dmchat/internal/service/presence"
	"github.com/vovakirdan/dmchat/internal/service/rooms"
	"github.com/vovakirdan/dmchat/internal/store"
	"github.com/vovakirdan/dmchat/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// startTestServer wires a full server over an in-memory store.
func startTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	st := createTestStore(t)
	disabledLogger := zerolog.Nop()

	hub := core.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	chatSvc := chat.New(presence.New(st), messages.New(st, rooms.New(st)), hub, &disabledLogger)
	server := NewServer(hub, chatSvc, &cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var raw json.RawMessage
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s: %v", typ, err)
		}
		raw = payload
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// wireOutbound mirrors proto.Outbound with raw data for decoding in tests.
type wireOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func readOutbound(t *testing.T, conn *websocket.Conn) wireOutbound {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var out wireOutbound
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return out
}

// readUntil skips frames until one matches the event name (or "error").
func readUntil(t *testing.T, conn *websocket.Conn, event string) wireOutbound {
	t.Helper()

	for i := 0; i < 10; i++ {
		out := readOutbound(t, conn)
		if event == proto.OutboundTypeError && out.Type == proto.OutboundTypeError {
			return out
		}
		if out.Type == proto.OutboundTypeEvent && out.Event == event {
			return out
		}
	}
	t.Fatalf("event %q not received", event)
	return wireOutbound{}
}

func decodeData[T any](t *testing.T, out wireOutbound) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(out.Data, &v); err != nil {
		t.Fatalf("decode %s data: %v", out.Event, err)
	}
	return v
}
