// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/signora/eventwall/internal/handler"
	"github.com/signora/eventwall/internal/middleware"
	"github.com/signora/eventwall/internal/model"
)

// RegisterRoutes registers routes that do not belong to a feature group.
func RegisterRoutes(e *echo.Echo, h handler.Health) {
	e.GET("/healthz", h.Check)
}

// RegisterAuth registers the session endpoints under /auth. The limiter
// wraps every auth route; sign-in additionally runs the credential guard,
// and onboarding requires an access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, guard, requireAuth, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth", limiter)
	g.POST("/sign-up", a.SignUp)
	g.POST("/sign-in", a.SignIn, guard)
	g.GET("/refresh", a.Refresh)
	g.POST("/complete-onboarding", a.CompleteOnboarding, requireAuth)
	g.GET("/me", a.Me, requireAuth)
}

// RegisterPosts registers posts, votes and comments. Listings are public
// and cached; writes require an access token.
func RegisterPosts(e *echo.Echo, p *handler.PostHandler, requireAuth, cache echo.MiddlewareFunc) {
	posts := e.Group("/post")
	posts.GET("/get-all", p.ListAll, cache)
	posts.GET("/get-by-event-id", p.ListByEvent, cache)
	posts.POST("/create", p.Create, requireAuth)
	posts.POST("/upvote", p.Upvote, requireAuth)
	posts.POST("/downvote", p.Downvote, requireAuth)

	comments := e.Group("/comment")
	comments.GET("/by-post", p.CommentsByPost, cache)
	comments.POST("/create", p.CreateComment, requireAuth)
}

// RegisterEvents registers the event endpoints. Reads are public and
// cached; only an ADMIN may create events.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, requireAuth, cache echo.MiddlewareFunc) {
	g := e.Group("/event")
	g.GET("/get-all", h.List, cache)
	g.GET("/get-by-id", h.GetByID, cache)
	g.POST("/create", h.Create, requireAuth, middleware.RequireRole(model.RoleAdmin))
}

// RegisterUsers registers profile endpoints and the ADMIN-only user
// management endpoints.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, requireAuth echo.MiddlewareFunc) {
	g := e.Group("/user", requireAuth)
	g.GET("/get-info-single", u.GetSingle)
	g.PUT("/update", u.Update)

	admin := g.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/get-all", u.List)
	admin.DELETE("/delete", u.Delete)
}

// RegisterNotifications registers the notification endpoints. Creation is
// open so that other internal services can post notifications directly.
func RegisterNotifications(e *echo.Echo, n *handler.NotificationHandler, requireAuth echo.MiddlewareFunc) {
	g := e.Group("/notifications")
	g.POST("/create", n.Create)
	g.GET("/get-all", n.List, requireAuth)
	g.POST("/mark-read", n.MarkRead, requireAuth)
	g.POST("/mark-all-read", n.MarkAllRead, requireAuth)
	g.DELETE("/delete", n.Delete, requireAuth)
}
