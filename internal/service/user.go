package service

import (
	"context"
	"errors"

	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/repository"
)

// UserDirectory is the read/write view of users used by profile and admin
// endpoints.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, u model.UserUpdate) (model.User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	Users UserDirectory
}

func NewUserService(users UserDirectory) *UserService { return &UserService{Users: users} }

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	if id == "" {
		return model.User{}, badRequest(MsgMissingUserID)
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, badRequest(MsgUserNotFound)
		}
		return model.User{}, internal(err)
	}
	return u, nil
}

// Update applies a partial profile update. An empty update returns the
// user unchanged.
func (s *UserService) Update(ctx context.Context, id string, upd model.UserUpdate) (model.User, error) {
	if id == "" {
		return model.User{}, badRequest(MsgMissingUserID)
	}
	if upd.Empty() {
		return s.Get(ctx, id)
	}
	u, err := s.Users.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, notFound(MsgUserNotFound)
		}
		return model.User{}, internal(err)
	}
	return u, nil
}

// List returns every end user.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	us, err := s.Users.List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return us, nil
}

// Delete removes an end user and, through the foreign keys, their posts,
// reactions, comments and notifications.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return notFound(MsgMissingUserID)
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(MsgUserNotFound)
		}
		return internal(err)
	}
	return nil
}
