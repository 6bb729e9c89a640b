package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lanten/lanten/core/property"
)

type propertyApi struct {
	deps *ServerDeps
}

func registerPropertyAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := propertyApi{deps: deps}

	// properties belong to landlords
	pg := g.Group("/properties", jwt, landlordMiddleware())
	pg.POST("", api.create)
	pg.GET("", api.list)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.delete)
}

// getOwnProperty fetches a property and checks that it belongs to the
// authenticated landlord. Properties of other landlords are reported as
// not found, not as forbidden.
func (api *propertyApi) getOwnProperty(ctx echo.Context) (property.Property, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return property.Property{}, errors.Wrap(err, "getting context claims")
	}

	prop, err := api.deps.PropertySvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == property.ErrNotFound {
			return property.Property{}, errHttpNotFound
		}
		return property.Property{}, errors.Wrap(err, "finding property by ID")
	}
	if prop.LandlordID != claims.Subject {
		return property.Property{}, errHttpNotFound
	}
	return prop, nil
}

// Handlers

func (api *propertyApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data property.NewProperty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProperty")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	prop, err := api.deps.PropertySvc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating property")
	}
	return ctx.JSON(http.StatusCreated, prop)
}

func (api *propertyApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	props, err := api.deps.PropertySvc.QueryByLandlord(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying properties")
	}
	return ctx.JSON(http.StatusOK, props)
}

func (api *propertyApi) retrieve(ctx echo.Context) error {
	prop, err := api.getOwnProperty(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prop)
}

func (api *propertyApi) update(ctx echo.Context) error {
	prop, err := api.getOwnProperty(ctx)
	if err != nil {
		return err
	}

	var data property.UpdateProperty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProperty")
	}
	if err := data.Validate(prop, api.deps.Validate); err != nil {
		return err
	}

	prop, err = api.deps.PropertySvc.Update(ctx.Request().Context(), prop.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating property")
	}
	return ctx.JSON(http.StatusOK, prop)
}

func (api *propertyApi) delete(ctx echo.Context) error {
	prop, err := api.getOwnProperty(ctx)
	if err != nil {
		return err
	}
	if err := api.deps.PropertySvc.Delete(ctx.Request().Context(), prop.ID); err != nil {
		return errors.Wrap(err, "deleting property")
	}
	return ctx.NoContent(http.StatusNoContent)
}
