package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/model"
	q "github.com/signora/eventwall/internal/queue"
	"github.com/signora/eventwall/internal/repository"
)

// PostStore persists posts.
type PostStore interface {
	Create(ctx context.Context, p *model.Post) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Post, error)
	ListAll(ctx context.Context) ([]model.Post, error)
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
}

// EventLookup resolves the event a post is attached to.
type EventLookup interface {
	GetByID(ctx context.Context, id string) (model.Event, error)
}

// CreatePostInput is the payload of a new post.
type CreatePostInput struct {
	Content  string
	ImageURL string
	EventID  string
	UserID   string
}

// PostService manages posts and their comments.
type PostService struct {
	Posts    PostStore
	Comments CommentStore
	Events   EventLookup
	Notifier Notifier
	Log      *logrus.Logger
}

func NewPostService(posts PostStore, comments CommentStore, events EventLookup, notifier Notifier, log *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Comments: comments, Events: events, Notifier: notifier, Log: log}
}

// Create stores a post on an existing event and tells its author it was
// published.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (model.Post, error) {
	if strings.TrimSpace(in.Content) == "" || in.EventID == "" || in.UserID == "" {
		return model.Post{}, badRequest("content, eventId and userId are required")
	}
	if _, err := s.Events.GetByID(ctx, in.EventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Post{}, notFound(MsgEventNotFound)
		}
		return model.Post{}, internal(err)
	}
	p := model.Post{
		ID:       uuid.NewString(),
		Content:  in.Content,
		ImageURL: in.ImageURL,
		EventID:  in.EventID,
		UserID:   in.UserID,
	}
	if err := s.Posts.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Post{}, notFound(MsgUserNotFound)
		}
		return model.Post{}, internal(err)
	}

	notify(ctx, s.Notifier, s.Log, q.NotificationEvent{
		UserID:  p.UserID,
		Title:   "New event has been successfully added",
		Message: "Your post is now visible on the event wall.",
		Type:    string(model.NotificationSystemAlert),
		Channel: string(model.ChannelInApp),
	})
	return p, nil
}

// ListByEvent returns the posts of one event, newest first.
func (s *PostService) ListByEvent(ctx context.Context, eventID string) ([]model.Post, error) {
	if eventID == "" {
		return nil, badRequest("eventId is required")
	}
	posts, err := s.Posts.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, internal(err)
	}
	return posts, nil
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]model.Post, error) {
	posts, err := s.Posts.ListAll(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return posts, nil
}

// AddComment stores a comment on an existing post.
func (s *PostService) AddComment(ctx context.Context, postID, userID, content string) (model.Comment, error) {
	if postID == "" || userID == "" || strings.TrimSpace(content) == "" {
		return model.Comment{}, badRequest("postId, userId and content are required")
	}
	c := model.Comment{ID: uuid.NewString(), PostID: postID, UserID: userID, Content: content}
	if err := s.Comments.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Comment{}, notFound("Post not found")
		}
		return model.Comment{}, internal(err)
	}
	return c, nil
}

// ListComments returns the comments on a post, oldest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	if postID == "" {
		return nil, badRequest("postId is required")
	}
	cs, err := s.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, internal(err)
	}
	return cs, nil
}
