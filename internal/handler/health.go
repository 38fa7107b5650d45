package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe. It returns plain "ok" without touching the
// database.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// HealthHandler reports database reachability.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Check runs SELECT 1 + 1 and reports the result as db.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()
	var n int
	if err := h.DB.QueryRowContext(ctx, "SELECT 1 + 1").Scan(&n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "db": n})
}
