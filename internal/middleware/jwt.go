package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/signora/eventwall/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the principal, its id and its effective role into the request
// context. Refresh tokens are rejected because they are signed with a
// different secret and carry a different class.
func JWTAuth(tokens *utils.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			claims, err := tokens.Verify(strings.TrimSpace(raw), utils.AccessToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			setPrincipal(c, claims.User)
			return next(c)
		}
	}
}
