package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/signora/eventwall/internal/model"
)

// CommentRepo provides access to the comments table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts c. A missing post yields ErrNotFound.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (id, post_id, user_id, content, created_at) VALUES (?,?,?,?,?)",
		c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", classify(err))
	}
	return nil
}

// ListByPost returns the comments on a post in the order they were written.
func (r *CommentRepo) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, post_id, user_id, content, created_at FROM comments WHERE post_id=? ORDER BY created_at ASC",
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
