package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	session := e.Group("/v1/auth")
	session.Use(authMiddleware.Authenticate)
	session.GET("/me", authHandler.Me)
	session.POST("/signout", authHandler.SignOut)
}
