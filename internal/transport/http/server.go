package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/dmchat/internal/chat"
	"github.com/vovakirdan/dmchat/internal/config"
	"github.com/vovakirdan/dmchat/internal/core"
	"github.com/vovakirdan/dmchat/internal/proto"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := proto.RegisterValidations(v); err != nil {
			panic(err)
		}
	}
}

// NewServer builds the HTTP server: /ws goes straight to the WebSocket
// handler, everything else to the gin router.
func NewServer(hub *core.Hub, chatSvc *chat.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	users := NewUserHandlers(chatSvc, logger)
	messages := NewMessageHandlers(chatSvc, cfg.MaxContentLength, logger)

	api := router.Group("/api")
	{
		api.GET("/users", users.ListConnected)
		api.POST("/users/connect", users.Connect)
		api.POST("/users/disconnect", users.Disconnect)

		api.POST("/messages", messages.Send)
		api.GET("/messages/:sender/:recipient", messages.List)
	}

	// The WebSocket upgrade needs the raw ResponseWriter, gin's wrapper
	// refuses to hijack once the handshake headers are written.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, chatSvc, cfg, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
