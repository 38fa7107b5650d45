package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/olimp/hotel-booking/internal/repository"
)

// UserHandler lists accounts. Password hashes never leave the repository
// layer through here.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler { return &UserHandler{Users: u} }

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}
	ctx, cancel := storeCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, u.View())
}
