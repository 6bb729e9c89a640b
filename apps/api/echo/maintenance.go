package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/maintenance"
)

type maintenanceApi struct {
	deps *ServerDeps
}

func registerMaintenanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := maintenanceApi{deps: deps}

	g.GET("/request-types", api.listRequestTypes, jwt)

	lg := g.Group("/leases/:id/maintenance-requests", jwt)
	lg.GET("", api.list)
	lg.POST("", api.create, tenantMiddleware())

	mg := g.Group("/maintenance-requests", jwt)
	mg.GET("/:id", api.retrieve)
	mg.PUT("/:id", api.updateStatus, landlordMiddleware())
	mg.DELETE("/:id", api.delete, landlordMiddleware())
}

func (api *maintenanceApi) getAuthorizedRequest(ctx echo.Context) (maintenance.Request, error) {
	req, err := api.deps.MaintenanceSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == maintenance.ErrNotFound {
			return maintenance.Request{}, errHttpNotFound
		}
		return maintenance.Request{}, errors.Wrap(err, "finding maintenance request by ID")
	}
	if _, _, err = getAuthorizedLease(ctx, api.deps, req.LeaseID); err != nil {
		return maintenance.Request{}, err
	}
	return req, nil
}

// Handlers

func (api *maintenanceApi) listRequestTypes(ctx echo.Context) error {
	types, err := api.deps.MaintenanceSvc.RequestTypes(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying request types")
	}
	return ctx.JSON(http.StatusOK, types)
}

func (api *maintenanceApi) create(ctx echo.Context) error {
	l, claims, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data maintenance.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	req, err := api.deps.MaintenanceSvc.Create(ctx.Request().Context(), l.ID, claims.Subject, data)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			return vErr
		}
		return errors.Wrap(err, "creating maintenance request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *maintenanceApi) list(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	reqs, err := api.deps.MaintenanceSvc.QueryByLease(ctx.Request().Context(), l.ID)
	if err != nil {
		return errors.Wrap(err, "querying maintenance requests")
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *maintenanceApi) retrieve(ctx echo.Context) error {
	req, err := api.getAuthorizedRequest(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *maintenanceApi) updateStatus(ctx echo.Context) error {
	req, err := api.getAuthorizedRequest(ctx)
	if err != nil {
		return err
	}

	var data maintenance.UpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	req, err = api.deps.MaintenanceSvc.UpdateStatus(ctx.Request().Context(), req.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating maintenance request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *maintenanceApi) delete(ctx echo.Context) error {
	req, err := api.getAuthorizedRequest(ctx)
	if err != nil {
		return err
	}
	if err := api.deps.MaintenanceSvc.Delete(ctx.Request().Context(), req.ID); err != nil {
		return errors.Wrap(err, "deleting maintenance request")
	}
	return ctx.NoContent(http.StatusNoContent)
}
