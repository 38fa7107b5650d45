package middleware

// identity.go derives the caller identity used in rate-limit keys.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the session user ID as a string, or "guest" when the
// request is anonymous.
func userID(c echo.Context) string {
	if s := CurrentSession(c); s.Authenticated() {
		return strconv.FormatUint(s.UserID, 10)
	}
	return "guest"
}
