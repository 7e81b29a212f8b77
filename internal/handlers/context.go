package handlers

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated user's id set by the auth
// middleware, or "" when the request is unauthenticated.
func currentUserID(c echo.Context) string {
	if uid, ok := c.Get("userID").(string); ok {
		return uid
	}
	return ""
}
