package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/dmchat/internal/chat"
	"github.com/vovakirdan/dmchat/internal/config"
	"github.com/vovakirdan/dmchat/internal/core"
	"github.com/vovakirdan/dmchat/internal/proto"
	"github.com/vovakirdan/dmchat/internal/service/messages"
	"github.com/vovakirdan/dmchat/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to the hub and the
// chat service.
type WSHandler struct {
	hub        *core.Hub
	chat       *chat.Service
	maxBytes   int64
	maxContent int
	rateLimit  int
	log        *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, chatSvc *chat.Service, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:        hub,
		chat:       chatSvc,
		maxBytes:   cfg.MaxMessageBytes,
		maxContent: cfg.MaxContentLength,
		rateLimit:  cfg.RateLimitPerMinute,
		log:        logger,
	}
}

// wsSession is the per-connection state owned by the read loop.
type wsSession struct {
	client   *core.Client
	nickname string
	limiter  *rateLimiter
	log      zerolog.Logger
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	if h.maxBytes > 0 {
		conn.SetReadLimit(h.maxBytes)
	}

	client := core.NewClient(utils.NewID(), 0)
	session := &wsSession{
		client:  client,
		limiter: newRateLimiter(h.rateLimit),
		log:     h.log.With().Str("client_id", client.ID).Logger(),
	}
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)
	session.log.Debug().Msg("ws client connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, session)
	}()

	err = <-errCh
	cancel()
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = "connection error"
			session.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	session.log.Debug().Str("nickname", session.nickname).Msg("ws client disconnected")
	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *wsSession) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if !session.limiter.allow() {
			h.reply(session, core.ErrorEvent(core.ErrCodeRateLimited, "too many commands"))
			continue
		}

		cmd, protoErr := inboundToCommand(session.nickname, inbound, h.maxContent)
		if protoErr != nil {
			session.log.Debug().Str("type", inbound.Type).Str("code", protoErr.Code).Msg("rejected inbound")
			h.reply(session, core.ErrorEvent(protoErr.Code, protoErr.Msg))
			continue
		}

		h.execute(ctx, session, cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, session *wsSession) error {
	for {
		select {
		case event, ok := <-session.client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				session.log.Error().Err(err).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// execute runs a command through the chat service. Replies travel through
// the hub so the write loop stays the only writer of the connection.
func (h *WSHandler) execute(ctx context.Context, session *wsSession, cmd *core.Command) {
	switch cmd.Kind {
	case core.CommandConnect:
		// Bound before the status broadcast, so the connection is addressable
		// by the time its own user event arrives.
		h.hub.BindUser(session.client, cmd.User.Nickname)
		user, err := h.chat.ConnectUser(ctx, cmd.User)
		if err != nil {
			h.hub.BindUser(session.client, session.nickname)
			h.replyError(session, err)
			return
		}
		session.nickname = user.Nickname
	case core.CommandDisconnect:
		if _, err := h.chat.DisconnectUser(ctx, cmd.User); err != nil {
			h.replyError(session, err)
			return
		}
		if cmd.User.Nickname == session.nickname {
			session.nickname = ""
			h.hub.BindUser(session.client, "")
		}
	case core.CommandSendMessage:
		saved, err := h.chat.SendMessage(ctx, cmd.Message)
		if err != nil {
			h.replyError(session, err)
			return
		}
		h.reply(session, &core.Event{Kind: core.EventMessageSaved, Message: saved})
	case core.CommandHistory:
		history, err := h.chat.ListMessages(ctx, cmd.Message.SenderID, cmd.Message.RecipientID)
		if err != nil {
			h.replyError(session, err)
			return
		}
		h.reply(session, &core.Event{
			Kind:        core.EventHistory,
			Messages:    history,
			SenderID:    cmd.Message.SenderID,
			RecipientID: cmd.Message.RecipientID,
		})
	case core.CommandListUsers:
		users, err := h.chat.ListConnectedUsers(ctx)
		if err != nil {
			h.replyError(session, err)
			return
		}
		h.reply(session, &core.Event{Kind: core.EventUsers, Users: users})
	}
}

func (h *WSHandler) reply(session *wsSession, event *core.Event) {
	h.hub.SendToClient(session.client, event)
}

func (h *WSHandler) replyError(session *wsSession, err error) {
	switch {
	case errors.Is(err, messages.ErrInvalidMessage):
		h.reply(session, core.ErrorEvent(core.ErrCodeInvalidMessage, err.Error()))
	case errors.Is(err, messages.ErrRoomNotFound):
		h.reply(session, core.ErrorEvent(core.ErrCodeRoomNotFound, err.Error()))
	case errors.Is(err, context.Canceled):
		// connection is going away
	default:
		session.log.Error().Err(err).Msg("command failed")
		h.reply(session, core.ErrorEvent(core.ErrCodeInternal, "internal error"))
	}
}
