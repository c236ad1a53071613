package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/service"
	"github.com/Skotchmaster/bug_tracker/internal/transport"
)

type NotificationHTTP struct {
	Svc *service.NotificationService
}

func (h *NotificationHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification_create")

	var req transport.NotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "notification_create_error", err)
	}

	n, err := h.Svc.Create(ctx, service.NotificationInput(req))
	if err != nil {
		return fail(l, "notification_create_error", err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *NotificationHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification_list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "notification_list_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification_get")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "notification_get_error", err)
	}
	n, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "notification_get_error", err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NotificationHTTP) ByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification_by_user")

	userID, err := idParam(c, "userId")
	if err != nil {
		return fail(l, "notification_by_user_error", err)
	}
	items, err := h.Svc.ByUser(ctx, userID)
	if err != nil {
		return fail(l, "notification_by_user_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification_update")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "notification_update_error", err)
	}
	var req transport.NotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "notification_update_error", err)
	}

	n, err := h.Svc.Update(ctx, id, service.NotificationInput(req))
	if err != nil {
		return fail(l, "notification_update_error", err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NotificationHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notification_delete")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "notification_delete_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "notification_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
