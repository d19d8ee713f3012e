package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/service"
)

// Notifications is the notification service as seen by the endpoints.
type Notifications interface {
	Create(ctx context.Context, in service.CreateNotificationInput) (model.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type NotificationHandler struct {
	Notifications Notifications
	Log           *logrus.Logger
}

func NewNotificationHandler(n Notifications, log *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Notifications: n, Log: log}
}

type createNotificationReq struct {
	UserID    string `json:"userId" validate:"required"`
	OfficerID string `json:"officerId"`
	Title     string `json:"title" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Type      string `json:"type" validate:"omitempty,oneof=APPOINTMENT_CONFIRMATION APPOINTMENT_REMINDER APPOINTMENT_UPDATE DOCUMENT_STATUS SYSTEM_ALERT"`
	Channel   string `json:"channel" validate:"omitempty,oneof=EMAIL SMS IN_APP"`
}

func (h *NotificationHandler) Create(c echo.Context) error {
	var req createNotificationReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.Notifications.Create(ctx, service.CreateNotificationInput{
		UserID:    req.UserID,
		OfficerID: req.OfficerID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      model.NotificationType(req.Type),
		Channel:   model.NotificationChannel(req.Channel),
	})
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *NotificationHandler) List(c echo.Context) error {
	uid, err := actingUser(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	ns, err := h.Notifications.ListByUser(ctx, uid)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, ns)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid, err := actingUser(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	n, err := h.Notifications.MarkRead(ctx, c.QueryParam("id"), uid)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	uid, err := actingUser(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	count, err := h.Notifications.MarkAllRead(ctx, uid)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": count})
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	uid, err := actingUser(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Notifications.Delete(ctx, c.QueryParam("id"), uid); err != nil {
		return httpError(h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
