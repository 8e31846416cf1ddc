package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/dmchat/internal/service/messages"
	"github.com/vovakirdan/dmchat/internal/store"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	Nickname string `json:"nickname"`
	FullName string `json:"full_name"`
	Status   string `json:"status"`
}

// MessageResponse represents a stored direct message in API responses.
type MessageResponse struct {
	ID          int64     `json:"id"`
	ChatID      string    `json:"chat_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}

func toUserResponse(u *store.User, _ int) UserResponse {
	return UserResponse{
		Nickname: u.Nickname,
		FullName: u.FullName,
		Status:   string(u.Status),
	}
}

func toMessageResponse(m *store.ChatMessage, _ int) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ChatID:      m.ChatID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		Timestamp:   m.Timestamp,
	}
}

// abortWithServiceError maps service errors to HTTP statuses.
func abortWithServiceError(c *gin.Context, log *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, messages.ErrInvalidMessage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, messages.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
