package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/signora/eventwall/internal/model"
)

// NotificationRepo provides access to the notifications table. Rows are
// written by the queue consumer and by the public create endpoint.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts n. When n.CreatedAt is zero the current time is used.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, officer_id, title, message, type, channel, is_read, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		n.ID, n.UserID, nullString(n.OfficerID), n.Title, n.Message, n.Type, n.Channel, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", classify(err))
	}
	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, officer_id, title, message, type, channel, is_read, created_at
		 FROM notifications WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetForUser returns notification id if it belongs to userID.
func (r *NotificationRepo) GetForUser(ctx context.Context, id, userID string) (model.Notification, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, officer_id, title, message, type, channel, is_read, created_at
		 FROM notifications WHERE id=? AND user_id=? LIMIT 1`, id, userID)
	return scanNotification(row)
}

// MarkRead flags a single notification as read.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE notifications SET is_read=1 WHERE id=?", id)
	return err
}

// MarkAllRead flags every unread notification of userID and returns how many
// rows changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE user_id=? AND is_read=0", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a notification by id.
func (r *NotificationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM notifications WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanNotification(s rowScanner) (model.Notification, error) {
	var (
		n       model.Notification
		officer sql.NullString
	)
	if err := s.Scan(&n.ID, &n.UserID, &officer, &n.Title, &n.Message, &n.Type, &n.Channel, &n.IsRead, &n.CreatedAt); err != nil {
		return model.Notification{}, classify(err)
	}
	n.OfficerID = officer.String
	return n, nil
}
