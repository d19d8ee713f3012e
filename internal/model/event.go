package model

import "time"

// Event is a public event that posts are attached to. Titles are unique.
// AdminID is the officer who created it.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
	Category    string    `json:"category"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	AdminID     string    `json:"adminId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
