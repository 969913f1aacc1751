package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// userMiddleware sets the authenticated user ID (the token subject) in the context.
func userMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				return errInvalidToken
			}
			ctx.Set(contextUserIDKey, id.String())
			return next(ctx)
		}
	}
}
