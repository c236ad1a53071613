package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/service"
	"github.com/Skotchmaster/bug_tracker/internal/transport"
)

type QualityHTTP struct {
	Svc *service.QualityService
}

func qualityInput(req transport.QualityRequest) (service.QualityInput, error) {
	calculated, err := transport.ParseDate(req.CalculatedDate)
	if err != nil {
		return service.QualityInput{}, fmt.Errorf("%w: calculatedDate: %v", service.ErrValidation, err)
	}
	return service.QualityInput{
		ProjectID:      req.ProjectID,
		BugCount:       req.BugCount,
		ResolvedCount:  req.ResolvedCount,
		QualityScore:   req.QualityScore,
		CalculatedDate: calculated,
	}, nil
}

func (h *QualityHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quality_create")

	var req transport.QualityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "quality_create_error", err)
	}
	in, err := qualityInput(req)
	if err != nil {
		return fail(l, "quality_create_error", err)
	}

	q, err := h.Svc.Create(ctx, in)
	if err != nil {
		return fail(l, "quality_create_error", err)
	}
	l.Info("quality_created", "metric_id", q.ID, "project_id", q.ProjectID)
	return c.JSON(http.StatusCreated, transport.QualityFromModel(q))
}

func (h *QualityHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quality_list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "quality_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Map(items, transport.QualityFromModel))
}

func (h *QualityHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quality_get")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "quality_get_error", err)
	}
	q, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "quality_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.QualityFromModel(q))
}

func (h *QualityHTTP) ByProject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quality_by_project")

	projectID, err := idParam(c, "projectId")
	if err != nil {
		return fail(l, "quality_by_project_error", err)
	}
	items, err := h.Svc.ByProject(ctx, projectID)
	if err != nil {
		return fail(l, "quality_by_project_error", err)
	}
	return c.JSON(http.StatusOK, transport.Map(items, transport.QualityFromModel))
}

func (h *QualityHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quality_update")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "quality_update_error", err)
	}
	var req transport.QualityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "quality_update_error", err)
	}
	in, err := qualityInput(req)
	if err != nil {
		return fail(l, "quality_update_error", err)
	}

	q, err := h.Svc.Update(ctx, id, in)
	if err != nil {
		return fail(l, "quality_update_error", err)
	}
	return c.JSON(http.StatusOK, transport.QualityFromModel(q))
}

func (h *QualityHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "quality_delete")

	id, err := idParam(c, "id")
	if err != nil {
		return fail(l, "quality_delete_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "quality_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
