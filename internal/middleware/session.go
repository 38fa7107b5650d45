package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/olimp/hotel-booking/internal/model"
	"github.com/olimp/hotel-booking/internal/session"
)

const (
	sessionKey = "session"
	sidKey     = "session_id"
)

// LoadSession resolves the caller's session from the olimp.sid cookie or a
// bearer token and stores it in the context. It never rejects a request:
// handlers and the booking service decide what an anonymous caller may do.
// A failing session store answers 503 instead of treating the caller as
// anonymous.
func LoadSession(m *session.Manager, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, sid, err := m.Resolve(c.Request().Context(), c.Request())
			if err != nil {
				log.Warn("session lookup failed", zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
			}
			if sess != nil {
				c.Set(sessionKey, sess)
				c.Set(sidKey, sid)
			}
			return next(c)
		}
	}
}

// RequireSession rejects anonymous callers with 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentSession(c).Authenticated() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session stored by LoadSession, or nil.
func CurrentSession(c echo.Context) *model.Session {
	s, _ := c.Get(sessionKey).(*model.Session)
	return s
}

// CurrentSID returns the opaque token of the current session.
func CurrentSID(c echo.Context) string {
	s, _ := c.Get(sidKey).(string)
	return s
}
