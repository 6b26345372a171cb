package router

import (
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// OptionalAuth resolves the caller's uid when a valid Bearer token is
// present but lets anonymous requests through. The browse view uses it to
// hide the viewer's own listings without requiring sign-in.
func OptionalAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					if token, err := authClient.VerifyIDToken(c.Request().Context(), parts[1]); err == nil {
						c.Set("uid", token.UID)
					}
				}
			}
			return next(c)
		}
	}
}
