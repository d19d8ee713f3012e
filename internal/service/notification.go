package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/repository"
)

// NotificationStore persists notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	GetForUser(ctx context.Context, id, userID string) (model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// CreateNotificationInput is the payload of a directly created
// notification.
type CreateNotificationInput struct {
	UserID    string
	OfficerID string
	Title     string
	Message   string
	Type      model.NotificationType
	Channel   model.NotificationChannel
}

type NotificationService struct {
	Store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{Store: store}
}

// Create stores an unread notification. Type and channel default to
// SYSTEM_ALERT and IN_APP.
func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) (model.Notification, error) {
	if in.UserID == "" || strings.TrimSpace(in.Title) == "" {
		return model.Notification{}, badRequest("userId and title are required")
	}
	n := model.Notification{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		OfficerID: in.OfficerID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		Channel:   in.Channel,
	}
	if n.Type == "" {
		n.Type = model.NotificationSystemAlert
	}
	if n.Channel == "" {
		n.Channel = model.ChannelInApp
	}
	if err := s.Store.Create(ctx, &n); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Notification{}, notFound(MsgUserNotFound)
		}
		return model.Notification{}, internal(err)
	}
	return n, nil
}

// ListByUser returns a user's notifications, newest first.
func (s *NotificationService) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	if userID == "" {
		return nil, badRequest(MsgMissingUserID)
	}
	ns, err := s.Store.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return ns, nil
}

// MarkRead marks one of userID's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (model.Notification, error) {
	n, err := s.owned(ctx, id, userID)
	if err != nil {
		return model.Notification{}, err
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.Store.MarkRead(ctx, n.ID); err != nil {
		return model.Notification{}, internal(err)
	}
	n.IsRead = true
	return n, nil
}

// MarkAllRead marks every notification of userID as read and reports how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, badRequest(MsgMissingUserID)
	}
	n, err := s.Store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, internal(err)
	}
	return n, nil
}

// Delete removes one of userID's notifications.
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	n, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, n.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(MsgNotificationMissing)
		}
		return internal(err)
	}
	return nil
}

func (s *NotificationService) owned(ctx context.Context, id, userID string) (model.Notification, error) {
	if id == "" || userID == "" {
		return model.Notification{}, badRequest("id and userId are required")
	}
	n, err := s.Store.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Notification{}, notFound(MsgNotificationMissing)
		}
		return model.Notification{}, internal(err)
	}
	return n, nil
}
