package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/model"
	q "github.com/signora/eventwall/internal/queue"
	"github.com/signora/eventwall/internal/repository"
)

// EventStore persists events.
type EventStore interface {
	Create(ctx context.Context, ev *model.Event) error
	GetByID(ctx context.Context, id string) (model.Event, error)
	GetByTitle(ctx context.Context, title string) (model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
}

// CreateEventInput is the payload of a new event.
type CreateEventInput struct {
	Title       string
	Description string
	EventDate   time.Time
	Category    string
	AdminID     string
}

// EventService manages the events posts are attached to.
type EventService struct {
	Events   EventStore
	Notifier Notifier
	Log      *logrus.Logger
}

func NewEventService(events EventStore, notifier Notifier, log *logrus.Logger) *EventService {
	return &EventService{Events: events, Notifier: notifier, Log: log}
}

// Create stores an event with a title no other event uses, then thanks the
// admin who added it.
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (model.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Description) == "" || in.Category == "" ||
		in.AdminID == "" || in.EventDate.IsZero() {
		return model.Event{}, badRequest("title, description, eventDate, category and adminId are required")
	}

	switch _, err := s.Events.GetByTitle(ctx, in.Title); {
	case err == nil:
		return model.Event{}, conflict(MsgEventTitleTaken)
	case !errors.Is(err, repository.ErrNotFound):
		return model.Event{}, internal(err)
	}

	ev := model.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		EventDate:   in.EventDate.UTC(),
		Category:    in.Category,
		AdminID:     in.AdminID,
	}
	if err := s.Events.Create(ctx, &ev); err != nil {
		switch {
		case errors.Is(err, repository.ErrTitleExists):
			return model.Event{}, conflict(MsgEventTitleTaken)
		case errors.Is(err, repository.ErrNotFound):
			return model.Event{}, notFound(MsgAdminNotFound)
		}
		return model.Event{}, internal(err)
	}
	s.Log.WithFields(logrus.Fields{"event_id": ev.ID, "admin_id": ev.AdminID}).Info("event created")

	notify(ctx, s.Notifier, s.Log, q.NotificationEvent{
		UserID:  ev.AdminID,
		Title:   "New event has been successfully added",
		Message: "Thank you for adding a new event. Please check the event details for more information.",
		Type:    string(model.NotificationSystemAlert),
		Channel: string(model.ChannelInApp),
	})
	return ev, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (model.Event, error) {
	if id == "" {
		return model.Event{}, notFound(MsgEventNotFound)
	}
	ev, err := s.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Event{}, notFound(MsgEventNotFound)
		}
		return model.Event{}, internal(err)
	}
	return ev, nil
}

// List returns every event, soonest first.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.Events.List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return events, nil
}
