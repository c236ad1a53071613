package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	authmw "github.com/Skotchmaster/bug_tracker/internal/middleware/auth"
	"github.com/Skotchmaster/bug_tracker/internal/service"
	"github.com/Skotchmaster/bug_tracker/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return fail(l, "register_error", err)
	}

	return c.JSON(http.StatusCreated, transport.UserFromModel(user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return fail(l, "login_error", err)
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

// LogOut revokes the bearer token and, when the body names one, the refresh token.
func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	access, _ := authmw.BearerToken(c)

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("logout_body_ignored", "error", err)
	}

	if err := h.Svc.Logout(ctx, access, req.RefreshToken); err != nil {
		return fail(l, "logout_error", err)
	}
	return c.String(http.StatusOK, "Logged out successfully.")
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "refresh_error", fmt.Errorf("%w: invalid body", service.ErrValidation))
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token.")
		}
		return fail(l, "refresh_error", err)
	}

	return c.JSON(http.StatusOK, transport.RefreshResponse{AccessToken: res.AccessToken})
}
