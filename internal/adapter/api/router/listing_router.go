package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authClient *auth.Client) {
	listingHandler := handler.GetListingHandler()

	books := e.Group("/v1/books")
	books.Use(OptionalAuth(authClient))
	books.GET("", listingHandler.BrowseListings)
	books.GET("/:id", listingHandler.GetListing)

	myBooks := e.Group("/v1/my-books")
	myBooks.Use(authMiddleware.Authenticate)
	myBooks.GET("", listingHandler.ListMyListings)
	myBooks.POST("", listingHandler.CreateListing)
	myBooks.PUT("/:id", listingHandler.UpdateListing)
	myBooks.DELETE("/:id", listingHandler.DeleteListing)
}
