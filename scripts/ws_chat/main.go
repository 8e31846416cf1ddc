package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/dmchat/internal/proto"
)

// outbound is proto.Outbound with the payload left undecoded.
type outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "nickname")
	fullName := flag.String("name", "", "full name")
	to := flag.String("to", "", "nickname to chat with")
	flag.Parse()

	if *to == "" {
		return errors.New("-to is required")
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, conn, proto.InboundTypeAddUser, proto.UserData{Nickname: *user, FullName: *fullName}); err != nil {
		return err
	}
	if err := send(ctx, conn, proto.InboundTypeHistory, proto.HistoryData{RecipientID: *to}); err != nil {
		return err
	}

	fmt.Printf("Connected to %s as %s, chatting with %s\n", *addr, *user, *to)
	fmt.Println("Type messages and press Enter to send. /users lists online users, /history reloads. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *to)

	// best effort, the server keeps the user online otherwise
	offCtx, offCancel := context.WithTimeout(context.Background(), time.Second)
	_ = send(offCtx, conn, proto.InboundTypeDisconnect, proto.UserData{Nickname: *user})
	offCancel()

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if out.Type == proto.OutboundTypeError && out.Error != nil {
			fmt.Printf("! %s: %s\n", out.Error.Code, out.Error.Msg)
			continue
		}

		switch out.Event {
		case proto.EventMessage, proto.EventMessageSaved:
			var evt proto.EventMessageData
			if err := json.Unmarshal(out.Data, &evt); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			printMessage(evt)
		case proto.EventHistory:
			var evt proto.EventHistoryData
			if err := json.Unmarshal(out.Data, &evt); err != nil {
				log.Printf("unmarshal history: %v", err)
				continue
			}
			fmt.Printf("-- %d message(s) with %s --\n", len(evt.Messages), evt.RecipientID)
			for _, m := range evt.Messages {
				printMessage(m)
			}
		case proto.EventUser:
			var evt proto.EventUserData
			if err := json.Unmarshal(out.Data, &evt); err != nil {
				log.Printf("unmarshal user: %v", err)
				continue
			}
			fmt.Printf("* %s is %s\n", evt.Nickname, strings.ToLower(evt.Status))
		case proto.EventUsers:
			var users []proto.EventUserData
			if err := json.Unmarshal(out.Data, &users); err != nil {
				log.Printf("unmarshal users: %v", err)
				continue
			}
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Nickname)
			}
			fmt.Printf("* online: %s\n", strings.Join(names, ", "))
		default:
			fmt.Printf("event=%s data=%s\n", out.Event, out.Data)
		}
	}
}

func printMessage(m proto.EventMessageData) {
	ts := time.Unix(m.TS, 0).Format(time.Kitchen)
	fmt.Printf("[%s] %s: %s\n", ts, m.SenderID, m.Content)
}

func writeLoop(ctx context.Context, conn *websocket.Conn, to string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)

			var err error
			switch text {
			case "":
				continue
			case "/users":
				err = wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeUsers})
			case "/history":
				err = send(ctx, conn, proto.InboundTypeHistory, proto.HistoryData{RecipientID: to})
			default:
				err = send(ctx, conn, proto.InboundTypeChat, proto.ChatData{RecipientID: to, Content: text})
			}
			if err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
