package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/payment"
)

type paymentApi struct {
	deps *ServerDeps
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := paymentApi{deps: deps}

	lg := g.Group("/leases/:id/payments", jwt)
	lg.GET("", api.list)
	lg.POST("", api.create, landlordMiddleware())

	pg := g.Group("/payments", jwt)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update, landlordMiddleware())
	pg.DELETE("/:id", api.delete, landlordMiddleware())

	// reminders ride on their payment
	pg.GET("/:id/reminders", api.listReminders)
	pg.POST("/:id/reminders", api.createReminder, landlordMiddleware())
	pg.PUT("/:id/reminders/:rid", api.updateReminder, landlordMiddleware())
	pg.DELETE("/:id/reminders/:rid", api.deleteReminder, landlordMiddleware())
}

// getAuthorizedPayment fetches a payment and checks lease-party access the
// same way lease endpoints do. Payments of other parties' leases are
// reported as not found.
func (api *paymentApi) getAuthorizedPayment(ctx echo.Context, id string) (payment.Payment, error) {
	p, err := api.deps.PaymentSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return payment.Payment{}, errHttpNotFound
		}
		return payment.Payment{}, errors.Wrap(err, "finding payment by ID")
	}
	if _, _, err = getAuthorizedLease(ctx, api.deps, p.LeaseID); err != nil {
		return payment.Payment{}, err
	}
	return p, nil
}

// Handlers

func (api *paymentApi) create(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	p, err := api.deps.PaymentSvc.Create(ctx.Request().Context(), l.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating payment")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *paymentApi) list(ctx echo.Context) error {
	l, _, err := getAuthorizedLease(ctx, api.deps, ctx.Param("id"))
	if err != nil {
		return err
	}

	payments, err := api.deps.PaymentSvc.QueryByLease(ctx.Request().Context(), l.ID)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	p, err := api.getAuthorizedPayment(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *paymentApi) update(ctx echo.Context) error {
	p, err := api.getAuthorizedPayment(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	p, err = api.deps.PaymentSvc.Update(ctx.Request().Context(), p.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating payment")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *paymentApi) delete(ctx echo.Context) error {
	p, err := api.getAuthorizedPayment(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	if err := api.deps.PaymentSvc.Delete(ctx.Request().Context(), p.ID); err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *paymentApi) createReminder(ctx echo.Context) error {
	p, err := api.getAuthorizedPayment(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data payment.NewReminder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReminder")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rem, err := api.deps.PaymentSvc.CreateReminder(ctx.Request().Context(), p.ID, data)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			return vErr
		}
		return errors.Wrap(err, "creating reminder")
	}
	return ctx.JSON(http.StatusCreated, rem)
}

func (api *paymentApi) listReminders(ctx echo.Context) error {
	p, err := api.getAuthorizedPayment(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}

	reminders, err := api.deps.PaymentSvc.Reminders(ctx.Request().Context(), p.ID)
	if err != nil {
		return errors.Wrap(err, "querying reminders")
	}
	return ctx.JSON(http.StatusOK, reminders)
}

// getPaymentReminder fetches a reminder after the payment access check and
// checks that it belongs to the payment in the path.
func (api *paymentApi) getPaymentReminder(ctx echo.Context) (payment.Reminder, error) {
	p, err := api.getAuthorizedPayment(ctx, ctx.Param("id"))
	if err != nil {
		return payment.Reminder{}, err
	}

	rem, err := api.deps.PaymentSvc.GetReminder(ctx.Request().Context(), ctx.Param("rid"))
	if err != nil {
		if errors.Cause(err) == payment.ErrReminderNotFound {
			return payment.Reminder{}, errHttpNotFound
		}
		return payment.Reminder{}, errors.Wrap(err, "finding reminder by ID")
	}
	if rem.PaymentID != p.ID {
		return payment.Reminder{}, errHttpNotFound
	}
	return rem, nil
}

func (api *paymentApi) updateReminder(ctx echo.Context) error {
	rem, err := api.getPaymentReminder(ctx)
	if err != nil {
		return err
	}

	var data payment.NewReminder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReminder")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rem, err = api.deps.PaymentSvc.UpdateReminder(ctx.Request().Context(), rem.ID, data)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			return vErr
		}
		return errors.Wrap(err, "updating reminder")
	}
	return ctx.JSON(http.StatusOK, rem)
}

func (api *paymentApi) deleteReminder(ctx echo.Context) error {
	rem, err := api.getPaymentReminder(ctx)
	if err != nil {
		return err
	}
	if err := api.deps.PaymentSvc.DeleteReminder(ctx.Request().Context(), rem.ID); err != nil {
		return errors.Wrap(err, "deleting reminder")
	}
	return ctx.NoContent(http.StatusNoContent)
}
