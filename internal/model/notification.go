package model

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationAppointmentConfirmation NotificationType = "APPOINTMENT_CONFIRMATION"
	NotificationAppointmentReminder     NotificationType = "APPOINTMENT_REMINDER"
	NotificationAppointmentUpdate       NotificationType = "APPOINTMENT_UPDATE"
	NotificationDocumentStatus          NotificationType = "DOCUMENT_STATUS"
	NotificationSystemAlert             NotificationType = "SYSTEM_ALERT"
)

// NotificationChannel is the delivery channel of a notification.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
	ChannelInApp NotificationChannel = "IN_APP"
)

// Notification mirrors a row in the `notifications` table.
type Notification struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	OfficerID string              `json:"officerId,omitempty"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Type      NotificationType    `json:"type"`
	Channel   NotificationChannel `json:"channel"`
	IsRead    bool                `json:"isRead"`
	CreatedAt time.Time           `json:"createdAt"`
}
