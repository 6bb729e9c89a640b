package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/message"
	"github.com/lanten/lanten/core/user"
)

var (
	errLandlordMessaging = echo.NewHTTPError(http.StatusForbidden, "you can only message your tenants")
	errTenantMessaging   = echo.NewHTTPError(http.StatusForbidden, "you can only message your landlord")
)

type messageApi struct {
	deps *ServerDeps
}

func registerMessageAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := messageApi{deps: deps}

	mg := g.Group("/messages", jwt)
	mg.GET("", api.contacts)
	mg.GET("/:id", api.conversation) // :id is the other user
	mg.POST("/:id", api.send)        // :id is the recipient
	mg.DELETE("/:id", api.delete)    // :id is the message
}

// getRecipient fetches the target user and checks that they share a lease
// with the caller: landlords may message the active tenants of their leases,
// tenants their landlord. Unknown or deactivated users are reported as not
// found.
func (api *messageApi) getRecipient(ctx echo.Context) (user.User, Claims, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, Claims{}, errors.Wrap(err, "getting context claims")
	}

	recipient, err := api.deps.UserSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, claims, errHttpNotFound
		}
		return user.User{}, claims, errors.Wrap(err, "finding recipient by ID")
	}
	if !recipient.Active() {
		return user.User{}, claims, errHttpNotFound
	}
	if recipient.ID == claims.Subject {
		return user.User{}, claims, core.NewValidationError(message.ErrSelfMessage)
	}

	leases, err := api.deps.LeaseSvc.QueryByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, claims, errors.Wrap(err, "querying user leases")
	}
	if claims.IsLandlord {
		for _, l := range leases {
			if l.LandlordID != claims.Subject {
				continue
			}
			ok, err := api.deps.LeaseSvc.IsActiveTenant(ctx.Request().Context(), l.ID, recipient.ID)
			if err != nil {
				return user.User{}, claims, errors.Wrap(err, "checking lease membership")
			}
			if ok {
				return recipient, claims, nil
			}
		}
		return user.User{}, claims, errLandlordMessaging
	}
	for _, l := range leases {
		if l.LandlordID == recipient.ID {
			return recipient, claims, nil
		}
	}
	return user.User{}, claims, errTenantMessaging
}

// Handlers

func (api *messageApi) send(ctx echo.Context) error {
	recipient, claims, err := api.getRecipient(ctx)
	if err != nil {
		return err
	}

	var data message.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	msg, err := api.deps.MessageSvc.Send(ctx.Request().Context(), claims.Subject, recipient.ID, data)
	if err != nil {
		if errors.Cause(err) == message.ErrSelfMessage {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *messageApi) conversation(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var filter message.ConversationFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to ConversationFilter")
	}

	msgs, err := api.deps.MessageSvc.Conversation(ctx.Request().Context(), claims.Subject, ctx.Param("id"), filter)
	if err != nil {
		if errors.Cause(err) == message.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying conversation")
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) contacts(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	contacts, err := api.deps.MessageSvc.Contacts(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying message contacts")
	}
	return ctx.JSON(http.StatusOK, contacts)
}

func (api *messageApi) delete(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.deps.MessageSvc.Delete(ctx.Request().Context(), ctx.Param("id"), claims.Subject); err != nil {
		switch errors.Cause(err) {
		case message.ErrNotFound:
			return errHttpNotFound
		case message.ErrNotSender:
			return errHttpForbidden
		}
		return errors.Wrap(err, "deleting message")
	}
	return ctx.NoContent(http.StatusNoContent)
}
