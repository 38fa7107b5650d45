package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/olimp/hotel-booking/internal/repository"
)

// RoomHandler exposes read-only room listings.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewRoomHandler(r *repository.RoomRepo) *RoomHandler { return &RoomHandler{Rooms: r} }

func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid room id"})
	}
	ctx, cancel := storeCtx(c)
	defer cancel()
	room, err := h.Rooms.GetByID(ctx, id)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, room)
}
