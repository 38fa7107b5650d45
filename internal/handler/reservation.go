package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/olimp/hotel-booking/internal/middleware"
	"github.com/olimp/hotel-booking/internal/service"
)

// CachePurger drops cached read responses after a write.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// ReservationHandler serves booking and reservation listings.
type ReservationHandler struct {
	Svc   *service.ReservationService
	Cache CachePurger
	Log   *zap.Logger
}

func NewReservationHandler(svc *service.ReservationService, cache CachePurger, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Cache: cache, Log: log}
}

// bookingBody accepts room_id as a JSON number or a numeric string.
type bookingBody struct {
	RoomID     json.RawMessage `json:"room_id"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	GuestName  string          `json:"guest_name"`
	GuestEmail string          `json:"guest_email"`
}

// Create handles POST /api/reservations. The session is checked before the
// body is read so anonymous callers learn nothing about their payload.
func (h *ReservationHandler) Create(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if _, err := service.Authorize(sess); err != nil {
		return h.bookingError(c, err)
	}

	var body bookingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON body"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()
	res, err := h.Svc.Book(ctx, sess, service.BookingRequest{
		RoomID:     rawText(body.RoomID),
		StartDate:  body.StartDate,
		EndDate:    body.EndDate,
		GuestName:  body.GuestName,
		GuestEmail: body.GuestEmail,
	})
	if err != nil {
		return h.bookingError(c, err)
	}

	if h.Cache != nil {
		if err := h.Cache.Purge(ctx); err != nil {
			h.Log.Warn("cache purge failed", zap.Error(err))
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "reservation saved", "id": res.ID})
}

func (h *ReservationHandler) bookingError(c echo.Context, err error) error {
	var missing *service.MissingFieldError
	var storage *service.StorageError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "log in to make a reservation"})
	case errors.As(err, &missing):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "required fields: room_id, start_date, end_date, guest_name, guest_email",
			"field":   missing.Field,
		})
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidRoomID):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case errors.Is(err, service.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &storage):
		h.Log.Error("reservation storage failure", zap.String("op", storage.Op), zap.Error(storage.Err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": storage.Err.Error()})
	default:
		h.Log.Error("reservation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": err.Error()})
	}
}

// Mine lists the reservations booked by the current session.
func (h *ReservationHandler) Mine(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()
	list, err := h.Svc.ListMine(ctx, middleware.CurrentSession(c))
	if err != nil {
		return h.bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// ForRoom lists the booked ranges of one room.
func (h *ReservationHandler) ForRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid room id"})
	}
	ctx, cancel := storeCtx(c)
	defer cancel()
	list, err := h.Svc.ListForRoom(ctx, id)
	if err != nil {
		return h.bookingError(c, err)
	}
	ranges := make([]echo.Map, 0, len(list))
	for _, r := range list {
		ranges = append(ranges, echo.Map{"start_date": r.StartDate, "end_date": r.EndDate})
	}
	return c.JSON(http.StatusOK, echo.Map{"room_id": id, "booked": ranges})
}
