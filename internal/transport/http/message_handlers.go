package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/dmchat/internal/chat"
	"github.com/vovakirdan/dmchat/internal/store"
)

// MessageHandlers provides HTTP handlers for direct messages.
type MessageHandlers struct {
	chat       *chat.Service
	maxContent int
	log        *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(chatSvc *chat.Service, maxContent int, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		chat:       chatSvc,
		maxContent: maxContent,
		log:        logger,
	}
}

// SendMessageRequest represents the send message request body.
type SendMessageRequest struct {
	SenderID    string `json:"sender_id" binding:"required,max=64,nickname"`
	RecipientID string `json:"recipient_id" binding:"required,max=64,nickname"`
	Content     string `json:"content" binding:"required"`
}

// Send stores a message and notifies the recipient.
// POST /api/messages
func (h *MessageHandlers) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid send message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if h.maxContent > 0 && len(req.Content) > h.maxContent {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("content exceeds %d bytes", h.maxContent)})
		return
	}

	saved, err := h.chat.SendMessage(c.Request.Context(), store.ChatMessage{
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
	})
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(saved, 0))
}

// List returns the messages exchanged by a pair in insertion order.
// GET /api/messages/:sender/:recipient
func (h *MessageHandlers) List(c *gin.Context) {
	history, err := h.chat.ListMessages(c.Request.Context(), c.Param("sender"), c.Param("recipient"))
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(history, toMessageResponse))
}
