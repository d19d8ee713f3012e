package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/service"
)

// CredentialValidator checks an email and password pair.
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, email, password string) (model.Principal, error)
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CredentialGuard authenticates a sign-in request body before the handler
// runs. On success the principal is stored on the context; failures are
// rendered with the service's message and status.
func CredentialGuard(v CredentialValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var req credentials
			if err := c.Bind(&req); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
			}
			if err := c.Validate(&req); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			p, err := v.ValidateCredentials(ctx, req.Email, req.Password)
			if err != nil {
				var se *service.Error
				if errors.As(err, &se) {
					switch se.Kind {
					case service.KindBadRequest:
						return echo.NewHTTPError(http.StatusBadRequest, se.Message)
					case service.KindUnauthorized:
						return echo.NewHTTPError(http.StatusUnauthorized, se.Message)
					}
				}
				return echo.NewHTTPError(http.StatusInternalServerError, service.MsgInternal).SetInternal(err)
			}
			setPrincipal(c, p)
			return next(c)
		}
	}
}
