package http

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/vovakirdan/dmchat/internal/core"
	"github.com/vovakirdan/dmchat/internal/proto"
	"github.com/vovakirdan/dmchat/internal/store"
)

// inboundToCommand decodes and validates a client envelope. nickname is the
// user bound to the connection and stands in for a missing sender_id.
func inboundToCommand(nickname string, inbound proto.Inbound, maxContent int) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeAddUser, proto.InboundTypeDisconnect:
		var data proto.UserData
		if perr := decodePayload(inbound.Data, &data); perr != nil {
			return nil, perr
		}
		kind := core.CommandConnect
		if inbound.Type == proto.InboundTypeDisconnect {
			kind = core.CommandDisconnect
		}
		return &core.Command{
			Kind: kind,
			User: store.User{Nickname: data.Nickname, FullName: data.FullName},
		}, nil
	case proto.InboundTypeChat:
		var data proto.ChatData
		if perr := decodePayload(inbound.Data, &data); perr != nil {
			return nil, perr
		}
		if maxContent > 0 && len(data.Content) > maxContent {
			return nil, &proto.Error{
				Code: core.ErrCodeInvalidMessage,
				Msg:  fmt.Sprintf("content exceeds %d bytes", maxContent),
			}
		}
		sender := lo.Ternary(data.SenderID != "", data.SenderID, nickname)
		if sender == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "sender_id is required before user.add"}
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Message: store.ChatMessage{
				SenderID:    sender,
				RecipientID: data.RecipientID,
				Content:     data.Content,
			},
		}, nil
	case proto.InboundTypeHistory:
		var data proto.HistoryData
		if perr := decodePayload(inbound.Data, &data); perr != nil {
			return nil, perr
		}
		sender := lo.Ternary(data.SenderID != "", data.SenderID, nickname)
		if sender == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "sender_id is required before user.add"}
		}
		return &core.Command{
			Kind:    core.CommandHistory,
			Message: store.ChatMessage{SenderID: sender, RecipientID: data.RecipientID},
		}, nil
	case proto.InboundTypeUsers:
		return &core.Command{Kind: core.CommandListUsers}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

func decodePayload(raw json.RawMessage, dst any) *proto.Error {
	if len(raw) == 0 {
		return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "data is required"}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed data"}
	}
	if err := proto.Validate(dst); err != nil {
		return &proto.Error{Code: core.ErrCodeBadRequest, Msg: err.Error()}
	}
	return nil
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventUserStatus:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUser,
			Data:  userData(event.User),
		}
	case core.EventUsers:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUsers,
			Data:  lo.Map(event.Users, func(u *store.User, _ int) proto.EventUserData { return userData(u) }),
		}
	case core.EventMessage, core.EventMessageSaved:
		name := lo.Ternary(event.Kind == core.EventMessage, proto.EventMessage, proto.EventMessageSaved)
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: name,
			Data:  messageData(event.Message),
		}
	case core.EventHistory:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventHistory,
			Data: proto.EventHistoryData{
				SenderID:    event.SenderID,
				RecipientID: event.RecipientID,
				Messages:    lo.Map(event.Messages, func(m *store.ChatMessage, _ int) proto.EventMessageData { return messageData(m) }),
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: core.ErrCodeInternal, Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func userData(u *store.User) proto.EventUserData {
	if u == nil {
		return proto.EventUserData{}
	}
	return proto.EventUserData{
		Nickname: u.Nickname,
		FullName: u.FullName,
		Status:   string(u.Status),
	}
}

func messageData(m *store.ChatMessage) proto.EventMessageData {
	if m == nil {
		return proto.EventMessageData{}
	}
	return proto.EventMessageData{
		ID:          m.ID,
		ChatID:      m.ChatID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		TS:          m.Timestamp.Unix(),
	}
}
