package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/dmchat/internal/chat"
	"github.com/vovakirdan/dmchat/internal/store"
)

// UserHandlers provides HTTP handlers for presence operations.
type UserHandlers struct {
	chat *chat.Service
	log  *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(chatSvc *chat.Service, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		chat: chatSvc,
		log:  logger,
	}
}

// ConnectRequest represents the connect request body.
type ConnectRequest struct {
	Nickname string `json:"nickname" binding:"required,max=64,nickname"`
	FullName string `json:"full_name" binding:"max=128"`
}

// DisconnectRequest represents the disconnect request body.
type DisconnectRequest struct {
	Nickname string `json:"nickname" binding:"required,max=64,nickname"`
}

// ListConnected returns every online user.
// GET /api/users
func (h *UserHandlers) ListConnected(c *gin.Context) {
	users, err := h.chat.ListConnectedUsers(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(users, toUserResponse))
}

// Connect marks a user online.
// POST /api/users/connect
func (h *UserHandlers) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid connect request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.chat.ConnectUser(c.Request.Context(), store.User{Nickname: req.Nickname, FullName: req.FullName})
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user, 0))
}

// Disconnect marks a user offline. Unknown users are echoed back unchanged.
// POST /api/users/disconnect
func (h *UserHandlers) Disconnect(c *gin.Context) {
	var req DisconnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid disconnect request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.chat.DisconnectUser(c.Request.Context(), store.User{Nickname: req.Nickname})
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user, 0))
}
