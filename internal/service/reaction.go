package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/repository"
	"github.com/signora/eventwall/internal/utils"
)

// ReactionStore persists post reactions. Create must fail with
// repository.ErrDuplicate when (post, user) already has a reaction.
type ReactionStore interface {
	Get(ctx context.Context, postID, userID string) (model.PostReaction, error)
	Create(ctx context.Context, pr *model.PostReaction) error
	UpdateType(ctx context.Context, id string, t model.ReactionType) error
	Delete(ctx context.Context, id string) error
}

// ReactionResult is the state of a user's vote after a toggle. A nil
// UserReaction means the user has no reaction on the post.
type ReactionResult struct {
	PostID       string              `json:"postId"`
	UserReaction *model.ReactionType `json:"userReaction"`
}

// ReactionService toggles upvotes and downvotes.
type ReactionService struct {
	Store ReactionStore
	Log   *logrus.Logger
	locks utils.KeyedMutex
}

func NewReactionService(store ReactionStore, log *logrus.Logger) *ReactionService {
	return &ReactionService{Store: store, Log: log}
}

// React applies desired to the (postID, userID) reaction:
//
//	none      -> create desired, return desired
//	same type -> delete,         return nil
//	other     -> update,         return desired
//
// Calls for the same pair are serialised in-process. If another process
// inserts between the lookup and the create, the toggle is re-run once
// against the stored row.
func (s *ReactionService) React(ctx context.Context, postID, userID string, desired model.ReactionType) (*ReactionResult, error) {
	if postID == "" || userID == "" {
		return nil, badRequest("postId and userId are required")
	}
	if !desired.Valid() {
		return nil, badRequest(MsgInvalidReaction)
	}

	unlock := s.locks.Lock(postID + "\x00" + userID)
	defer unlock()

	current, err := s.toggle(ctx, postID, userID, desired)
	if errors.Is(err, repository.ErrDuplicate) {
		s.Log.WithFields(logrus.Fields{"post_id": postID, "user_id": userID}).
			Debug("concurrent reaction insert, retrying")
		current, err = s.toggle(ctx, postID, userID, desired)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Post or user not found")
		}
		return nil, internal(err)
	}
	return &ReactionResult{PostID: postID, UserReaction: current}, nil
}

func (s *ReactionService) toggle(ctx context.Context, postID, userID string, desired model.ReactionType) (*model.ReactionType, error) {
	existing, err := s.Store.Get(ctx, postID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		pr := &model.PostReaction{ID: uuid.NewString(), PostID: postID, UserID: userID, Type: desired}
		if err := s.Store.Create(ctx, pr); err != nil {
			return nil, err
		}
		return &desired, nil
	case err != nil:
		return nil, err
	case existing.Type == desired:
		if err := s.Store.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		if err := s.Store.UpdateType(ctx, existing.ID, desired); err != nil {
			return nil, err
		}
		return &desired, nil
	}
}
