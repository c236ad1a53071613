package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/service"
	"github.com/Skotchmaster/bug_tracker/internal/transport"
)

type ProjectHTTP struct {
	Svc *service.ProjectService
}

func projectInput(req transport.ProjectRequest) (service.ProjectInput, error) {
	start, err := transport.ParseDate(req.StartDate)
	if err != nil {
		return service.ProjectInput{}, fmt.Errorf("%w: startDate: %v", service.ErrValidation, err)
	}
	end, err := transport.ParseDate(req.EndDate)
	if err != nil {
		return service.ProjectInput{}, fmt.Errorf("%w: endDate: %v", service.ErrValidation, err)
	}
	return service.ProjectInput{
		Name:      req.ProjectName,
		StartDate: start,
		EndDate:   end,
		ManagerID: req.ManagerID,
	}, nil
}

func (h *ProjectHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "project_create")

	var req transport.ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "project_create_error", err)
	}
	in, err := projectInput(req)
	if err != nil {
		return fail(l, "project_create_error", err)
	}

	p, err := h.Svc.Create(ctx, in)
	if err != nil {
		return fail(l, "project_create_error", err)
	}
	l.Info("project_created", "project_id", p.ID)
	return c.JSON(http.StatusCreated, transport.ProjectFromModel(p))
}

func (h *ProjectHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "project_list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "project_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Map(items, transport.ProjectFromModel))
}

func (h *ProjectHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "project_get")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "project_get_error", err)
	}
	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "project_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.ProjectFromModel(p))
}

func (h *ProjectHTTP) ByManager(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "project_by_manager")

	managerID, err := idParam(c, "managerId")
	if err != nil {
		return fail(l, "project_by_manager_error", err)
	}
	items, err := h.Svc.ByManager(ctx, managerID)
	if err != nil {
		return fail(l, "project_by_manager_error", err)
	}
	return c.JSON(http.StatusOK, transport.Map(items, transport.ProjectFromModel))
}

func (h *ProjectHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "project_update")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "project_update_error", err)
	}
	var req transport.ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "project_update_error", err)
	}
	in, err := projectInput(req)
	if err != nil {
		return fail(l, "project_update_error", err)
	}

	p, err := h.Svc.Update(ctx, id, in)
	if err != nil {
		return fail(l, "project_update_error", err)
	}
	return c.JSON(http.StatusOK, transport.ProjectFromModel(p))
}

func (h *ProjectHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "project_delete")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "project_delete_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "project_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
