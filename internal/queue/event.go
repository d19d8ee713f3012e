// Package queue defines message payloads exchanged over the message broker
// and the consumer that persists them.
package queue

import "time"

// NotificationQueue is the durable queue notifications are published to.
const NotificationQueue = "notifications.created"

// NotificationEvent is published whenever something happens that a user
// should be told about (sign-up, onboarding, new post). The consumer turns
// each event into a row in the notifications table.
type NotificationEvent struct {
	UserID    string    `json:"user_id"`
	OfficerID string    `json:"officer_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}
