package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.GET("", chatHandler.GetConversations)
	chats.POST("/messages", chatHandler.SendMessage)
	chats.GET("/with/:userId/messages", chatHandler.GetMessages)
}
