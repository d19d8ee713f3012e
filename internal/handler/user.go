package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/middleware"
	"github.com/signora/eventwall/internal/model"
)

// Users is the user service as seen by the profile and admin endpoints.
type Users interface {
	Get(ctx context.Context, id string) (model.User, error)
	Update(ctx context.Context, id string, upd model.UserUpdate) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id string) error
}

type UserHandler struct {
	Users Users
	Log   *logrus.Logger
}

func NewUserHandler(u Users, log *logrus.Logger) *UserHandler {
	return &UserHandler{Users: u, Log: log}
}

type updateUserReq struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=1"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Province    *string `json:"province"`
	PostalCode  *string `json:"postalCode"`
	IsVerified  *bool   `json:"isVerified"`
}

// GetSingle returns the profile of ?userId= (the caller unless staff).
func (h *UserHandler) GetSingle(c echo.Context) error {
	id, err := actingUser(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update applies a partial profile update. Only staff may change the
// verification flag.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := actingUser(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.IsVerified != nil {
		role, _ := c.Get(middleware.ContextRole).(string)
		if model.Role(role) != model.RoleAdmin && model.Role(role) != model.RoleOfficer {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.Update(ctx, id, model.UserUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		Province:    req.Province,
		PostalCode:  req.PostalCode,
		IsVerified:  req.IsVerified,
	})
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, u)
}

// List returns every user (ADMIN only).
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	us, err := h.Users.List(ctx)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, us)
}

// Delete removes ?userId= (ADMIN only).
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Users.Delete(ctx, c.QueryParam("userId")); err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted"})
}
