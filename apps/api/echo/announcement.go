package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lanten/lanten/core/announcement"
)

type announcementApi struct {
	deps *ServerDeps
}

func registerAnnouncementAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := announcementApi{deps: deps}

	lg := g.Group("/leases/:id/announcements", jwt)
	lg.GET("", api.list)
	lg.POST("", api.create, landlordMiddleware())

	ag := g.Group("/announcements", jwt)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, landlordMiddleware())
	ag.DELETE("/:id", api.delete, landlordMiddleware())
}

func (api *announcementApi) getAuthorizedAnnouncement(ctx echo.Context) (announcement.Announcement, error) {
	ann, err := api.deps.AnnouncementSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == announcement.ErrNotFound {
			return announcement.Announcement{}, errHttpNotFound
		}
		return announcement.Announcement{}, errors.Wrap(err, "finding announcement by ID")
	}
	if _, _, err = getAuthorizedLease(ctx, api.deps, ann.LeaseID); err != nil {
		return announcement.Announcement{}, err
	}
	return ann, nil
}

// Handlers

func (api *announcementApi) create(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ann, err := api.deps.AnnouncementSvc.Create(ctx.Request().Context(), l.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *announcementApi) list(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	anns, err := api.deps.AnnouncementSvc.QueryByLease(ctx.Request().Context(), l.ID)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *announcementApi) retrieve(ctx echo.Context) error {
	ann, err := api.getAuthorizedAnnouncement(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *announcementApi) update(ctx echo.Context) error {
	ann, err := api.getAuthorizedAnnouncement(ctx)
	if err != nil {
		return err
	}

	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ann, err = api.deps.AnnouncementSvc.Update(ctx.Request().Context(), ann.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating announcement")
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *announcementApi) delete(ctx echo.Context) error {
	ann, err := api.getAuthorizedAnnouncement(ctx)
	if err != nil {
		return err
	}
	if err := api.deps.AnnouncementSvc.Delete(ctx.Request().Context(), ann.ID); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}
