package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/lease"
	"github.com/lanten/lanten/core/property"
)

type leaseApi struct {
	deps *ServerDeps
}

func registerLeaseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := leaseApi{deps: deps}

	lg := g.Group("/leases", jwt)
	lg.GET("", api.list)
	lg.GET("/:id", api.retrieve)
	lg.GET("/:id/tenants", api.listTenants)

	// landlord-only
	lg.POST("", api.create, landlordMiddleware())
	lg.PUT("/:id", api.update, landlordMiddleware())
	lg.DELETE("/:id", api.delete, landlordMiddleware())
	lg.POST("/:id/invite", api.invite, landlordMiddleware())

	// tenant-only
	lg.POST("/accept-invite", api.acceptInvite, tenantMiddleware())
	lg.POST("/:id/leave", api.leave, tenantMiddleware())
}

// getAuthorizedLease fetches a lease and checks that the authenticated user
// is a party to it: the landlord of the owning property, or an active tenant.
// Leases the user is not a party to are reported as not found. The invite
// code is blanked for tenants; only the landlord may share it.
func getAuthorizedLease(ctx echo.Context, deps *ServerDeps, leaseID string) (lease.Lease, Claims, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return lease.Lease{}, Claims{}, errors.Wrap(err, "getting context claims")
	}

	l, err := deps.LeaseSvc.GetByID(ctx.Request().Context(), leaseID)
	if err != nil {
		if errors.Cause(err) == lease.ErrNotFound {
			return lease.Lease{}, claims, errHttpNotFound
		}
		return lease.Lease{}, claims, errors.Wrap(err, "finding lease by ID")
	}

	if claims.IsLandlord && l.LandlordID == claims.Subject {
		return l, claims, nil
	}
	if claims.IsTenant {
		ok, err := deps.LeaseSvc.IsActiveTenant(ctx.Request().Context(), l.ID, claims.Subject)
		if err != nil {
			return lease.Lease{}, claims, errors.Wrap(err, "checking lease membership")
		}
		if ok {
			l.InviteCode = ""
			return l, claims, nil
		}
	}
	return lease.Lease{}, claims, errHttpNotFound
}

// Handlers

func (api *leaseApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data lease.NewLease
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLease")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	// the property must exist and belong to the landlord
	prop, err := api.deps.PropertySvc.GetByID(ctx.Request().Context(), data.PropertyID)
	if err != nil && errors.Cause(err) != property.ErrNotFound {
		return errors.Wrap(err, "finding property by ID")
	}
	if err != nil || prop.LandlordID != claims.Subject {
		return core.NewValidationError(nil, core.FieldError{Field: "property_id", Error: property.ErrNotFound.Error()})
	}

	l, err := api.deps.LeaseSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lease")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *leaseApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	leases, err := api.deps.LeaseSvc.QueryByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying leases")
	}
	if claims.IsTenant {
		for i := range leases {
			leases[i].InviteCode = ""
		}
	}
	return ctx.JSON(http.StatusOK, leases)
}

func (api *leaseApi) retrieve(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *leaseApi) update(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data lease.UpdateLease
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLease")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	l, err = api.deps.LeaseSvc.Update(ctx.Request().Context(), l.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating lease")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *leaseApi) delete(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}
	if err := api.deps.LeaseSvc.Delete(ctx.Request().Context(), l.ID); err != nil {
		return errors.Wrap(err, "deleting lease")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *leaseApi) listTenants(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	tenants, err := api.deps.LeaseSvc.Tenants(ctx.Request().Context(), l.ID)
	if err != nil {
		return errors.Wrap(err, "querying lease tenants")
	}
	return ctx.JSON(http.StatusOK, tenants)
}

func (api *leaseApi) invite(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data lease.InviteTenant
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to InviteTenant")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	inv, err := api.deps.LeaseSvc.Invite(ctx.Request().Context(), l, data)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			return vErr
		}
		return errors.Wrap(err, "inviting tenant")
	}
	return ctx.JSON(http.StatusCreated, inv)
}

func (api *leaseApi) acceptInvite(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data lease.AcceptInvite
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AcceptInvite")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	t, err := api.deps.LeaseSvc.AcceptInvite(ctx.Request().Context(), usr, data)
	if err != nil {
		switch errors.Cause(err) {
		case lease.ErrInviteNotFound:
			return errHttpNotFound
		case lease.ErrInviteExpired, lease.ErrInviteUsed:
			return core.NewValidationError(nil, core.FieldError{Field: "invite_code", Error: errors.Cause(err).Error()})
		case lease.ErrTenantsOnly:
			return errHttpForbidden
		}
		return errors.Wrap(err, "accepting invite")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *leaseApi) leave(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.deps.LeaseSvc.Leave(ctx.Request().Context(), ctx.Param("id"), claims.Subject); err != nil {
		return errors.Wrap(err, "leaving lease")
	}
	return ctx.NoContent(http.StatusNoContent)
}
