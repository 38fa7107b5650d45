// Package router builds the echo instance and registers every route.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/olimp/hotel-booking/internal/config"
	"github.com/olimp/hotel-booking/internal/handler"
	"github.com/olimp/hotel-booking/internal/middleware"
	"github.com/olimp/hotel-booking/internal/session"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Rooms        *handler.RoomHandler
	Users        *handler.UserHandler
	Authors      *handler.AuthorHandler
}

// New returns an echo instance with the global middleware chain and all
// routes registered. rdb may be nil; the Redis backed middleware then
// passes requests through. cache may be nil as well.
func New(cfg config.Config, h Handlers, sessions *session.Manager, cache *middleware.ResponseCache, rdb *redis.Client, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.LoadSession(sessions, log))
	e.Use(middleware.RateLimit(cfg.RateLimit, rdb, log))

	RegisterRoutes(e, h.Health)
	RegisterAuth(e, h.Auth)
	RegisterPublic(e, h, cache)
	RegisterReservations(e, h.Reservations)
	return e
}

// RegisterRoutes registers the health checks. /healthz is the liveness
// probe; /api/health also checks the database.
func RegisterRoutes(e *echo.Echo, hh *handler.HealthHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/api/health", hh.Check)
}

// RegisterAuth registers the session endpoints under /api/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.RequireSession())
}

// RegisterPublic registers read endpoints that need no session. Room reads
// go through the response cache.
func RegisterPublic(e *echo.Echo, h Handlers, cache *middleware.ResponseCache) {
	cached := cache.Middleware()
	e.GET("/api/rooms", h.Rooms.List, cached)
	e.GET("/api/rooms/:id", h.Rooms.Get, cached)
	e.GET("/api/rooms/:id/reservations", h.Reservations.ForRoom, cached)

	e.GET("/api/users", h.Users.List)
	e.GET("/api/users/:id", h.Users.Get)

	e.GET("/api/authors", h.Authors.List)
	e.GET("/api/authors/:id", h.Authors.Get)
	e.POST("/api/authors", h.Authors.Create)
}
