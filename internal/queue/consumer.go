package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/model"
)

// NotificationStore persists consumed notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}

// ErrMalformedEvent marks a message that can never be processed and must
// not be requeued.
var ErrMalformedEvent = errors.New("malformed notification event")

// StartNotificationConsumer connects to RabbitMQ, declares the durable
// notifications queue and writes every event to store. It reconnects with
// exponential backoff when the broker goes away and returns only when ctx is
// cancelled.
func StartNotificationConsumer(ctx context.Context, url string, store NotificationStore, log *logrus.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.WithError(err).Warnf("notification-consumer: dial failed, retrying in %s", backoff)
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, store, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("notification-consumer: consume loop ended, reconnecting")
		if err := sleep(ctx, 2*time.Second); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, store NotificationStore, log *logrus.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.WithError(err).Warn("notification-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			settle(ctx, store, d, log)
		}
	}
}

// requeueDelay slows redelivery while the store is failing.
var requeueDelay = time.Second

// settle handles one delivery and acks it. Malformed events are dropped;
// any other failure is requeued so a store outage does not lose them.
func settle(ctx context.Context, store NotificationStore, d amqp.Delivery, log *logrus.Logger) {
	err := HandleMessage(ctx, store, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrMalformedEvent):
		log.WithError(err).Warn("notification-consumer: dropping malformed message")
		_ = d.Nack(false, false)
	default:
		log.WithError(err).Warn("notification-consumer: store failed, requeueing")
		_ = sleep(ctx, requeueDelay)
		_ = d.Nack(false, true)
	}
}

// HandleMessage decodes one event and stores it as an unread notification.
func HandleMessage(ctx context.Context, store NotificationStore, body []byte) error {
	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if ev.UserID == "" || ev.Title == "" {
		return fmt.Errorf("%w: user_id and title are required", ErrMalformedEvent)
	}
	n := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    ev.UserID,
		OfficerID: ev.OfficerID,
		Title:     ev.Title,
		Message:   ev.Message,
		Type:      model.NotificationType(ev.Type),
		Channel:   model.NotificationChannel(ev.Channel),
		CreatedAt: ev.CreatedAt,
	}
	if n.Type == "" {
		n.Type = model.NotificationSystemAlert
	}
	if n.Channel == "" {
		n.Channel = model.ChannelInApp
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return store.Create(ctx, n)
}
