package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type reminderApi struct {
	deps *ServerDeps
}

// registerReminderAPI registers the machine-to-machine reminder endpoints.
// They are meant to be hit by a scheduler (cron) and are authorized with the
// pre-shared API key instead of a user JWT.
func registerReminderAPI(g *echo.Group, deps *ServerDeps) {
	api := reminderApi{deps: deps}

	rg := g.Group("/reminders", preSharedKeyMiddleware(deps.Conf))
	rg.GET("/due", api.due)
	rg.POST("/notify", api.notify)
}

// Handlers

func (api *reminderApi) due(ctx echo.Context) error {
	dues, err := api.deps.PaymentSvc.DueReminders(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing due reminders")
	}
	return ctx.JSON(http.StatusOK, dues)
}

func (api *reminderApi) notify(ctx echo.Context) error {
	sent, err := api.deps.PaymentSvc.NotifyDueReminders(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "notifying due reminders")
	}
	return ctx.JSON(http.StatusOK, NotifyResponse{DigestsSent: sent})
}

type NotifyResponse struct {
	DigestsSent int `json:"digests_sent"`
}
