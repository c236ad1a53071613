package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/service"
	"github.com/Skotchmaster/bug_tracker/internal/transport"
)

type ReportHTTP struct {
	Svc *service.ReportService
}

func (h *ReportHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report_create")

	var req transport.ReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "report_create_error", err)
	}

	rep, err := h.Svc.Create(ctx, service.ReportInput(req))
	if err != nil {
		return fail(l, "report_create_error", err)
	}
	l.Info("report_created", "report_id", rep.ID, "type", rep.Type)
	return c.JSON(http.StatusCreated, rep)
}

func (h *ReportHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report_list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "report_list_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReportHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report_get")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "report_get_error", err)
	}
	rep, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "report_get_error", err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHTTP) ByType(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report_by_type")

	items, err := h.Svc.ByType(ctx, c.Param("type"))
	if err != nil {
		return fail(l, "report_by_type_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReportHTTP) ByCreator(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report_by_creator")

	items, err := h.Svc.ByCreator(ctx, c.Param("generatedBy"))
	if err != nil {
		return fail(l, "report_by_creator_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReportHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report_update")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "report_update_error", err)
	}
	var req transport.ReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "report_update_error", err)
	}

	rep, err := h.Svc.Update(ctx, id, service.ReportInput(req))
	if err != nil {
		return fail(l, "report_update_error", err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report_delete")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "report_delete_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "report_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
