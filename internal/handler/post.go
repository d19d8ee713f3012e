package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/service"
)

// Posts is the post service as seen by the post and comment endpoints.
type Posts interface {
	Create(ctx context.Context, in service.CreatePostInput) (model.Post, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Post, error)
	ListAll(ctx context.Context) ([]model.Post, error)
	AddComment(ctx context.Context, postID, userID, content string) (model.Comment, error)
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
}

// Reactions toggles votes.
type Reactions interface {
	React(ctx context.Context, postID, userID string, desired model.ReactionType) (*service.ReactionResult, error)
}

type PostHandler struct {
	Posts     Posts
	Reactions Reactions
	Log       *logrus.Logger
}

func NewPostHandler(p Posts, r Reactions, log *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: p, Reactions: r, Log: log}
}

type createPostReq struct {
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	EventID  string `json:"eventId" validate:"required"`
	UserID   string `json:"userId"`
}

type createCommentReq struct {
	PostID  string `json:"postId" validate:"required"`
	UserID  string `json:"userId"`
	Content string `json:"content" validate:"required"`
}

func (h *PostHandler) Create(c echo.Context) error {
	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	uid, err := actingUser(c, req.UserID)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Posts.Create(ctx, service.CreatePostInput{
		Content:  req.Content,
		ImageURL: req.ImageURL,
		EventID:  req.EventID,
		UserID:   uid,
	})
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PostHandler) ListByEvent(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	posts, err := h.Posts.ListByEvent(ctx, c.QueryParam("eventId"))
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) ListAll(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	posts, err := h.Posts.ListAll(ctx)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Upvote toggles an upvote of ?userId= (the caller unless staff) on ?postId=.
func (h *PostHandler) Upvote(c echo.Context) error { return h.react(c, model.ReactionUpvote) }

// Downvote toggles a downvote.
func (h *PostHandler) Downvote(c echo.Context) error { return h.react(c, model.ReactionDownvote) }

func (h *PostHandler) react(c echo.Context, t model.ReactionType) error {
	uid, err := actingUser(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Reactions.React(ctx, c.QueryParam("postId"), uid, t)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PostHandler) CreateComment(c echo.Context) error {
	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	uid, err := actingUser(c, req.UserID)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cm, err := h.Posts.AddComment(ctx, req.PostID, uid, req.Content)
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusCreated, cm)
}

func (h *PostHandler) CommentsByPost(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	cs, err := h.Posts.ListComments(ctx, c.QueryParam("postId"))
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, cs)
}
