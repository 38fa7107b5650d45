package router

import (
	"github.com/labstack/echo/v4"

	"github.com/olimp/hotel-booking/internal/handler"
)

// RegisterReservations registers the booking endpoints. They carry no
// session middleware: the handlers authorize through the booking service
// so the 401 comes before any body validation.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler) {
	g := e.Group("/api/reservations")
	g.POST("", h.Create)
	g.GET("/mine", h.Mine)
}
