package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/signora/eventwall/internal/model"
)

// ReactionRepo provides access to the post_reactions table. The unique key
// on (post_id, user_id) guarantees at most one reaction per user and post;
// a second insert fails with ErrDuplicate.
type ReactionRepo struct{ DB *sql.DB }

func NewReactionRepo(db *sql.DB) *ReactionRepo { return &ReactionRepo{DB: db} }

// Get returns the reaction of userID on postID, or ErrNotFound.
func (r *ReactionRepo) Get(ctx context.Context, postID, userID string) (model.PostReaction, error) {
	var pr model.PostReaction
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, post_id, user_id, type, created_at, updated_at
		 FROM post_reactions WHERE post_id=? AND user_id=? LIMIT 1`,
		postID, userID).Scan(&pr.ID, &pr.PostID, &pr.UserID, &pr.Type, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return model.PostReaction{}, classify(err)
	}
	return pr, nil
}

// Create inserts pr. A missing post or user yields ErrNotFound.
func (r *ReactionRepo) Create(ctx context.Context, pr *model.PostReaction) error {
	now := time.Now().UTC().Truncate(time.Second)
	pr.CreatedAt, pr.UpdatedAt = now, now
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO post_reactions (id, post_id, user_id, type, created_at, updated_at) VALUES (?,?,?,?,?,?)`,
		pr.ID, pr.PostID, pr.UserID, pr.Type, now, now)
	if err != nil {
		return fmt.Errorf("insert reaction: %w", classify(err))
	}
	return nil
}

// UpdateType switches an existing reaction to t.
func (r *ReactionRepo) UpdateType(ctx context.Context, id string, t model.ReactionType) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE post_reactions SET type=? WHERE id=?", t, id)
	if err != nil {
		return fmt.Errorf("update reaction: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a reaction by id.
func (r *ReactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM post_reactions WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return requireAffected(res)
}
