package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	q "github.com/signora/eventwall/internal/queue"
)

// Notifier delivers notification events. Callers treat delivery as best
// effort.
type Notifier interface {
	Notify(ctx context.Context, ev q.NotificationEvent) error
}

// QueuePublisher publishes notification events to the durable
// notifications.created queue. Messages are marked as persistent.
type QueuePublisher struct {
	URL string
	Log *logrus.Logger
}

func NewQueuePublisher(url string, log *logrus.Logger) *QueuePublisher {
	return &QueuePublisher{URL: url, Log: log}
}

// Notify dials the broker, declares the queue (idempotent) and publishes ev.
// Errors are logged and returned so the caller can choose to ignore them.
func (p *QueuePublisher) Notify(ctx context.Context, ev q.NotificationEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	conn, err := p.dial(ctx)
	if err != nil {
		p.Log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.NotificationQueue, true, false, false, false, nil); err != nil {
		p.Log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.CreatedAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.NotificationQueue, false, false, pub); err != nil {
		p.Log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}

// dial connects within ctx's deadline. amqp.Dial alone would wait up to 30s
// for a broker that accepts TCP but never completes the handshake.
func (p *QueuePublisher) dial(ctx context.Context) (*amqp.Connection, error) {
	timeout := notifyTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}

// notifyTimeout bounds a single publish, connection setup included.
const notifyTimeout = 3 * time.Second

// notify sends ev through n without letting a failure or a cancelled request
// affect the caller. A nil Notifier is a no-op.
func notify(ctx context.Context, n Notifier, log *logrus.Logger, ev q.NotificationEvent) {
	if n == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := n.Notify(ctx, ev); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"user_id": ev.UserID,
			"title":   ev.Title,
		}).Warn("notification not delivered")
	}
}
