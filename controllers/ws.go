package controllers

import (
	"net/http"

	"hirehub-api/middleware"
	"hirehub-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type SocketController struct {
	hub            *services.SocketHub
	allowedOrigins []string
	logger         *zap.Logger
}

func NewSocketController(hub *services.SocketHub, allowedOrigins []string, logger *zap.Logger) *SocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocketController{hub: hub, allowedOrigins: allowedOrigins, logger: logger}
}

func (h *SocketController) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients do not send an Origin.
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// GET /api/v1/ws
func (h *SocketController) Connect(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized", "error": "unauthenticated"})
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("user_id", uid), zap.Error(err))
		return
	}

	h.hub.Serve(c.Request.Context(), conn, uid)
}

// Stats reports open sockets and distinct online users.
func (h *SocketController) Stats() (sockets int, onlineUsers int) {
	return h.hub.Sessions(), h.hub.OnlineUsers()
}
