package middleware

// identity.go defines the context keys the auth middleware fills in and the
// helpers other middleware use to read them back.

import (
	"github.com/labstack/echo/v4"

	"github.com/signora/eventwall/internal/model"
)

// Context keys set by JWTAuth and CredentialGuard.
const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextPrincipal = "principal"
)

func setPrincipal(c echo.Context, p model.Principal) {
	c.Set(ContextPrincipal, p)
	c.Set(ContextUserID, p.ID)
	c.Set(ContextRole, string(p.EffectiveRole()))
}

// PrincipalFrom returns the principal stored on c by the auth middleware.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(ContextPrincipal).(model.Principal)
	return p, ok
}

// currentUserID returns the authenticated user id, or "anon" for requests
// that have not been through JWTAuth.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(ContextUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
