package echoapi

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
)

// landlordMiddleware restricts an endpoint to landlord accounts.
func landlordMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsLandlord {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// tenantMiddleware restricts an endpoint to tenant accounts.
func tenantMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsTenant {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// preSharedKeyMiddleware authorizes machine-to-machine endpoints (the
// reminder trigger) against the configured API key. The key is expected in
// the Authorization header, with or without a "Bearer " prefix.
func preSharedKeyMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			key := strings.TrimPrefix(ctx.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if conf.APIKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(conf.APIKey)) != 1 {
				return errInvalidAPIKey
			}
			return next(ctx)
		}
	}
}
