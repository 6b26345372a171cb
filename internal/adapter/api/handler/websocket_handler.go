package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/internal/usecase"
	"campusbooks/pkg/errors"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	feed      *usecase.ConversationFeed
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // restrict in production deployments
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, feed *usecase.ConversationFeed) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		feed:      feed,
	}
}

// HandleWebSocket upgrades the connection and starts the per-connection
// workers: read/write pumps plus the conversation feed poller. All of them
// stop when the connection closes, so no timer or subscription outlives the
// view that owns it.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Done:   make(chan struct{}),
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()
	// The request context dies when the handler returns; the poller's
	// lifetime is the connection's, signalled through client.Done.
	go h.feed.Watch(context.Background(), userID, client.Done)

	return nil
}
