package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/search"
	"github.com/Skotchmaster/bug_tracker/internal/service"
	"github.com/Skotchmaster/bug_tracker/internal/transport"
	"github.com/Skotchmaster/bug_tracker/internal/util"
)

type BugHTTP struct {
	Svc *service.BugService
}

func (h *BugHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bug_create")

	var req transport.BugRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "bug_create_error", err)
	}

	b, err := h.Svc.Create(ctx, service.BugInput(req))
	if err != nil {
		return fail(l, "bug_create_error", err)
	}
	l.Info("bug_created", "bug_id", b.ID)
	return c.JSON(http.StatusCreated, transport.BugFromModel(b))
}

// List pages through bugs: ?page=1&size=20&sortBy=createdDate&order=desc.
func (h *BugHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bug_list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	desc := strings.EqualFold(c.QueryParam("order"), "desc")

	total, items, err := h.Svc.List(ctx, offset, limit, c.QueryParam("sortBy"), desc)
	if err != nil {
		return fail(l, "bug_list_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": transport.Map(items, transport.BugFromModel),
		"meta": util.PageMeta(page, offset, limit, total),
	})
}

func (h *BugHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bug_get")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "bug_get_error", err)
	}
	b, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "bug_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.BugFromModel(b))
}

func (h *BugHTTP) ByProject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bug_by_project")

	projectID, err := idParam(c, "projectId")
	if err != nil {
		return fail(l, "bug_by_project_error", err)
	}
	items, err := h.Svc.ByProject(ctx, projectID)
	if err != nil {
		return fail(l, "bug_by_project_error", err)
	}
	return c.JSON(http.StatusOK, transport.Map(items, transport.BugFromModel))
}

func (h *BugHTTP) ByPriority(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bug_by_priority")

	items, err := h.Svc.ByPriority(ctx, c.Param("priority"))
	if err != nil {
		return fail(l, "bug_by_priority_error", err)
	}
	return c.JSON(http.StatusOK, transport.Map(items, transport.BugFromModel))
}

func (h *BugHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bug_update")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "bug_update_error", err)
	}
	var req transport.BugRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "bug_update_error", err)
	}

	b, err := h.Svc.Update(ctx, id, service.BugInput(req))
	if err != nil {
		return fail(l, "bug_update_error", err)
	}
	return c.JSON(http.StatusOK, transport.BugFromModel(b))
}

func (h *BugHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bug_delete")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "bug_delete_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "bug_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BugHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bug_search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, docs, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "bug_search_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": transport.Map(docs, func(d *search.BugDocument) transport.BugResponse {
			return transport.BugFromDocument(*d)
		}),
		"meta": util.PageMeta(page, offset, limit, total),
	})
}
