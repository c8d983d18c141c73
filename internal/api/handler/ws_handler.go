package handler

import (
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/redis"
	"CAConnect/internal/pkg/response"
	"CAConnect/internal/pkg/security"
	"CAConnect/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct{}

func NewWsHandler() *WsHandler {
	return &WsHandler{}
}

// Connect upgrades to a websocket and streams the user's inbox channel so
// new notifications arrive without polling.
func (s *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS auth failed", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS upgrade failed", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	channel := consts.InboxChannelKey + strconv.FormatUint(userID, 10)
	pubsub := redis.Subscribe(context.Background(), channel)
	if pubsub == nil {
		log.Error("WS subscribe failed", "userID", userID)
		return
	}
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("WS connection established", "userID", userID)

	stopChan := make(chan struct{})

	// Read loop watches for the client hanging up.
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				close(stopChan)
				return
			}
		}
	}()

	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Error("WS push failed", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("WS connection closed", "userID", userID)
			return
		}
	}
}
