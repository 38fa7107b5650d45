package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/olimp/hotel-booking/internal/model"
	"github.com/olimp/hotel-booking/internal/repository"
)

type AuthorHandler struct {
	Authors *repository.AuthorRepo
}

func NewAuthorHandler(a *repository.AuthorRepo) *AuthorHandler { return &AuthorHandler{Authors: a} }

func (h *AuthorHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()
	list, err := h.Authors.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AuthorHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid author id"})
	}
	ctx, cancel := storeCtx(c)
	defer cancel()
	a, err := h.Authors.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "author not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AuthorHandler) Create(c echo.Context) error {
	var a model.Author
	if err := c.Bind(&a); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON body"})
	}
	a.ID = 0
	a.FirstName, a.LastName = strings.TrimSpace(a.FirstName), strings.TrimSpace(a.LastName)
	if a.FirstName == "" || a.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "required fields: first_name, last_name"})
	}
	ctx, cancel := storeCtx(c)
	defer cancel()
	if err := h.Authors.Create(ctx, &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "author added", "id": a.ID})
}
