package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, authMiddleware *middleware.AuthMiddleware) {
	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.Authenticate)
}
