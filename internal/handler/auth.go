package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
	"github.com/iliyamo/healthconnect-api/internal/middleware"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

// AuthService is what the auth endpoints need from the service layer.
type AuthService interface {
	Signup(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context, userID uint64) (*model.User, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type tokenResp struct {
	Token string `json:"token"`
}

type meResp struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Signup: create the user and return a session token straight away.
func (h *AuthHandler) Signup(c echo.Context) error {
	in, err := bindCredentials(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	token, err := h.svc.Signup(ctx, in.Username, in.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tokenResp{Token: token})
}

// Login: verify the password and return a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	in, err := bindCredentials(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	token, err := h.svc.Login(ctx, in.Username, in.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tokenResp{Token: token})
}

// Me returns the caller. It sits behind BearerAuth.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return writeError(c, apperr.Unauthorized("missing or invalid authorization header"))
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.svc.Me(ctx, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, meResp{ID: u.ID, Username: u.Username})
}
