package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/service"
	"github.com/Skotchmaster/bug_tracker/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_create")

	var req transport.UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "user_create_error", err)
	}

	u, err := h.Svc.Create(ctx, service.UserInput(req))
	if err != nil {
		return fail(l, "user_create_error", err)
	}
	return c.JSON(http.StatusCreated, transport.UserFromModel(u))
}

func (h *UserHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_list")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "user_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Map(users, transport.UserFromModel))
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_get")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "user_get_error", err)
	}
	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "user_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.UserFromModel(u))
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_update")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "user_update_error", err)
	}
	var req transport.UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "user_update_error", err)
	}

	u, err := h.Svc.Update(ctx, id, service.UserInput(req))
	if err != nil {
		return fail(l, "user_update_error", err)
	}
	return c.JSON(http.StatusOK, transport.UserFromModel(u))
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "user_delete_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "user_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
