package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/service"
)

// Events is the event service as seen by the event endpoints.
type Events interface {
	Create(ctx context.Context, in service.CreateEventInput) (model.Event, error)
	Get(ctx context.Context, id string) (model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
}

type EventHandler struct {
	Events Events
	Log    *logrus.Logger
}

func NewEventHandler(ev Events, log *logrus.Logger) *EventHandler {
	return &EventHandler{Events: ev, Log: log}
}

type createEventReq struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	EventDate   time.Time `json:"eventDate" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	AdminID     string    `json:"adminId"`
}

// Create adds an event owned by adminId (the caller by default).
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	adminID, err := actingUser(c, req.AdminID)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ev, err := h.Events.Create(ctx, service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Category:    req.Category,
		AdminID:     adminID,
	})
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *EventHandler) GetByID(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	ev, err := h.Events.Get(ctx, c.QueryParam("eventId"))
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	events, err := h.Events.List(ctx)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, events)
}
