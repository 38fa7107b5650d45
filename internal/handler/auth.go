package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/olimp/hotel-booking/internal/middleware"
	"github.com/olimp/hotel-booking/internal/model"
	"github.com/olimp/hotel-booking/internal/repository"
	"github.com/olimp/hotel-booking/internal/session"
	"github.com/olimp/hotel-booking/internal/utils"
)

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 6

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users      *repository.UserRepo
	Sessions   *session.Manager
	BcryptCost int
	Log        *zap.Logger
}

func NewAuthHandler(u *repository.UserRepo, s *session.Manager, bcryptCost int, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: u, Sessions: s, BcryptCost: bcryptCost, Log: log}
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResp struct {
	Message string         `json:"message"`
	User    model.UserView `json:"user"`
	Token   string         `json:"token"`
}

func (h *AuthHandler) bind(c echo.Context) (credentials, bool) {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return req, false
	}
	req.Login = strings.TrimSpace(req.Login)
	return req, req.Login != "" && req.Password != ""
}

// startSession issues a session and writes the cookie plus the auth body.
func (h *AuthHandler) startSession(c echo.Context, status int, msg string, u model.UserView) error {
	ctx, cancel := storeCtx(c)
	defer cancel()
	issued, err := h.Sessions.Issue(ctx, u.ID, u.Login)
	if err != nil {
		h.Log.Error("issue session failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
	}
	c.SetCookie(issued.Cookie)
	return c.JSON(status, authResp{Message: msg, User: u, Token: issued.Bearer})
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	req, ok := h.bind(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login and password are required"})
	}
	if len(req.Password) < MinPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()
	uid, err := h.Users.Create(ctx, req.Login, req.Password, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrLoginExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "login already exists"})
		}
		h.Log.Error("create user failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return h.startSession(c, http.StatusCreated, "account created", model.UserView{ID: uid, Login: req.Login})
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	req, ok := h.bind(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login and password are required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()
	u, err := h.Users.GetByLogin(ctx, req.Login)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.Log.Error("load user failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// unknown login and wrong password are indistinguishable to the caller
	if err != nil || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid login or password"})
	}
	return h.startSession(c, http.StatusOK, "logged in", u.View())
}

// Me returns the identity of the current session.
func (h *AuthHandler) Me(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if !sess.Authenticated() {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": model.UserView{ID: sess.UserID, Login: sess.Login}})
}

// Logout destroys the server-side session and clears the cookie. It
// succeeds for anonymous callers too.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sid := middleware.CurrentSID(c); sid != "" {
		ctx, cancel := storeCtx(c)
		defer cancel()
		if err := h.Sessions.Revoke(ctx, sid); err != nil {
			h.Log.Error("revoke session failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	c.SetCookie(h.Sessions.ClearCookie())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
