package handler_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/olimp/hotel-booking/internal/config"
	"github.com/olimp/hotel-booking/internal/database"
	"github.com/olimp/hotel-booking/internal/handler"
	"github.com/olimp/hotel-booking/internal/model"
	"github.com/olimp/hotel-booking/internal/repository"
	"github.com/olimp/hotel-booking/internal/router"
	"github.com/olimp/hotel-booking/internal/service"
	"github.com/olimp/hotel-booking/internal/session"
)

type api struct {
	e      *echo.Echo
	db     *sql.DB
	roomID uint64
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))

	room := &model.Room{Name: "101", Capacity: 2, PricePerNightCents: 12000}
	require.NoError(t, repository.NewRoomRepo(db).Create(ctx, room))

	log := zap.NewNop()
	users := repository.NewUserRepo(db)
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), config.DevSessionSecret, time.Hour, false)
	svc := service.NewReservationService(repository.NewReservationRepo(db, database.SQLite), nil, log)

	h := router.Handlers{
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(users, sessions, bcrypt.MinCost, log),
		Reservations: handler.NewReservationHandler(svc, nil, log),
		Rooms:        handler.NewRoomHandler(repository.NewRoomRepo(db)),
		Users:        handler.NewUserHandler(users),
		Authors:      handler.NewAuthorHandler(repository.NewAuthorRepo(db)),
	}
	cfg := config.Config{CORSOrigins: []string{"http://localhost:5500"}}
	return &api{e: router.New(cfg, h, sessions, nil, nil, log), db: db, roomID: room.ID}
}

func (a *api) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", session.CookieName)
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *api) register(t *testing.T, login string) *http.Cookie {
	t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", `{"login":"`+login+`","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","db":2}`, rec.Body.String())

	rec = a.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/auth/register", `{"login":"ann","password":"123"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(http.MethodPost, "/api/auth/register", `{"login":"","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/auth/register", `{"login":"ann","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "ann", body["user"].(map[string]any)["login"])
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	rec = a.do(http.MethodPost, "/api/auth/register", `{"login":"ann","password":"secret2"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/auth/login", `{"login":"ann","password":"wrong!"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = a.do(http.MethodPost, "/api/auth/login", `{"login":"nobody","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/api/auth/login", `{"login":"ann","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	me := httptest.NewRecorder()
	a.e.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"login":"ann"`)

	rec = a.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/api/auth/logout", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodGet, "/api/auth/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateReservation(t *testing.T) {
	a := newAPI(t)
	cookie := a.register(t, "guest")
	room := strconv.FormatUint(a.roomID, 10)

	payload := func(roomID, start, end string) string {
		return `{"room_id":` + roomID + `,"start_date":"` + start + `","end_date":"` + end +
			`","guest_name":"Ann","guest_email":"ann@example.com"}`
	}

	// unauthenticated callers get 401 even for a broken payload
	rec := a.do(http.MethodPost, "/api/reservations", `{"room_id":`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decode(t, rec), "error")

	rec = a.do(http.MethodPost, "/api/reservations", `{"room_id":`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/reservations",
		`{"room_id":1,"start_date":"2024-01-01","end_date":"2024-01-05","guest_name":"Ann"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body, "message")
	assert.Equal(t, "guest_email", body["field"])

	rec = a.do(http.MethodPost, "/api/reservations", payload(room, "2024-01-05", "2024-01-01"), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/reservations", payload("999", "2024-01-01", "2024-01-05"), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPost, "/api/reservations", payload(room, "2024-01-01", "2024-01-05"), cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Contains(t, body, "message")
	assert.NotZero(t, body["id"])

	rec = a.do(http.MethodPost, "/api/reservations", payload(room, "2024-01-03", "2024-01-06"), cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode(t, rec), "error")

	// room_id as a numeric string, back to back with the first stay
	rec = a.do(http.MethodPost, "/api/reservations", payload(`"`+room+`"`, "2024-01-05", "2024-01-10"), cookie)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/rooms/"+room+"/reservations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["booked"], 2)

	rec = a.do(http.MethodGet, "/api/reservations/mine", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["reservations"], 2)

	rec = a.do(http.MethodGet, "/api/reservations/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateReservationStorageFailure(t *testing.T) {
	a := newAPI(t)
	cookie := a.register(t, "olga")
	require.NoError(t, a.db.Close())

	rec := a.do(http.MethodPost, "/api/reservations", `{"room_id":`+strconv.FormatUint(a.roomID, 10)+
		`,"start_date":"2024-02-01","end_date":"2024-02-03","guest_name":"Olga","guest_email":"olga@example.com"}`, cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "database error", body["message"])
	assert.NotEmpty(t, body["error"])
}

func TestRoomsUsersAuthors(t *testing.T) {
	a := newAPI(t)
	a.register(t, "zed")

	rec := a.do(http.MethodGet, "/api/rooms", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["rooms"], 1)

	rec = a.do(http.MethodGet, "/api/rooms/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"login":"zed"`)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = a.do(http.MethodGet, "/api/users/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPost, "/api/authors", `{"first_name":"Ada"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(http.MethodPost, "/api/authors", `{"first_name":"Ada","last_name":"Lovelace"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodGet, "/api/authors", "", nil)
	assert.Contains(t, rec.Body.String(), "Lovelace")
}
