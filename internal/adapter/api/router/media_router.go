package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func SetupMediaRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	mediaHandler := handler.GetMediaHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)
	files.POST("/upload", mediaHandler.UploadImage)
}
