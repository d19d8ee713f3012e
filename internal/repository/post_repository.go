package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/signora/eventwall/internal/model"
)

// PostRepo provides access to the posts table.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts p. A missing author yields ErrNotFound.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	p.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (id, content, image_url, event_id, user_id, created_at) VALUES (?,?,?,?,?,?)",
		p.ID, p.Content, nullString(p.ImageURL), p.EventID, p.UserID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", classify(err))
	}
	return nil
}

// ListByEvent returns the posts of an event, newest first.
func (r *PostRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Post, error) {
	return r.list(ctx,
		"SELECT id, content, image_url, event_id, user_id, created_at FROM posts WHERE event_id=? ORDER BY created_at DESC",
		eventID)
}

// ListAll returns every post, newest first.
func (r *PostRepo) ListAll(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx,
		"SELECT id, content, image_url, event_id, user_id, created_at FROM posts ORDER BY created_at DESC")
}

func (r *PostRepo) list(ctx context.Context, q string, args ...any) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []model.Post{}
	for rows.Next() {
		var (
			p   model.Post
			img sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Content, &img, &p.EventID, &p.UserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ImageURL = img.String
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
