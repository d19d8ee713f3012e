package model

import "time"

// Post is an entry on an event wall.
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReactionType is the kind of vote a user cast on a post.
type ReactionType string

const (
	ReactionUpvote   ReactionType = "UPVOTE"
	ReactionDownvote ReactionType = "DOWNVOTE"
)

// Valid reports whether t is one of the known reaction types.
func (t ReactionType) Valid() bool {
	return t == ReactionUpvote || t == ReactionDownvote
}

// PostReaction mirrors a row in `post_reactions`. There is at most one row
// per (PostID, UserID).
type PostReaction struct {
	ID        string
	PostID    string
	UserID    string
	Type      ReactionType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a reply to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
