package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/signora/eventwall/internal/model"
	q "github.com/signora/eventwall/internal/queue"
	"github.com/signora/eventwall/internal/repository"
	"github.com/signora/eventwall/internal/utils"
)

// UserStore is the subset of the users repository the session service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (model.User, error)
	CompleteOnboarding(ctx context.Context, id string, o model.Onboarding) (model.User, error)
}

// OfficerStore looks up staff officers.
type OfficerStore interface {
	GetByEmail(ctx context.Context, email string) (model.Officer, error)
	GetByID(ctx context.Context, id string) (model.Officer, error)
}

// SignUpInput is the data required to register an end user.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// TokenPair is a freshly issued access and refresh token with their
// expiry instants.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresIn  time.Time `json:"accessTokenExpiresIn"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresIn time.Time `json:"refreshTokenExpiresIn"`
}

// AuthResult is the body returned by sign-up and sign-in.
type AuthResult struct {
	Message string          `json:"message"`
	User    model.Principal `json:"user"`
	TokenPair
}

// OnboardingResult is the body returned after the onboarding form.
type OnboardingResult struct {
	UpdatedUser model.User `json:"updatedUser"`
	Message     string     `json:"message"`
}

// SessionService authenticates principals and is the only component that
// mints tokens.
type SessionService struct {
	Users    UserStore
	Officers OfficerStore
	Hasher   *utils.PasswordHasher
	Tokens   *utils.TokenIssuer
	Notifier Notifier
	Log      *logrus.Logger
}

func NewSessionService(users UserStore, officers OfficerStore, hasher *utils.PasswordHasher,
	tokens *utils.TokenIssuer, notifier Notifier, log *logrus.Logger) *SessionService {
	return &SessionService{
		Users:    users,
		Officers: officers,
		Hasher:   hasher,
		Tokens:   tokens,
		Notifier: notifier,
		Log:      log,
	}
}

// SignUp registers an end user and signs them in. The email must not be
// taken by a user or an officer. The welcome notification is best effort.
func (s *SessionService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	email := repository.NormalizeEmail(in.Email)

	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &Error{Kind: KindBadRequest, Message: MsgCannotHash, Err: err}
		}
		return nil, internal(err)
	}

	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return nil, internal(err)
	}
	if taken {
		return nil, conflict(MsgEmailRegistered)
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: digest,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, conflict(MsgEmailRegistered)
		}
		return nil, internal(err)
	}
	s.Log.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user signed up")

	notify(ctx, s.Notifier, s.Log, q.NotificationEvent{
		UserID:  u.ID,
		Title:   "Welcome to SignOra",
		Message: fmt.Sprintf("Hi %s, your account has been created.", u.FirstName),
		Type:    string(model.NotificationSystemAlert),
		Channel: string(model.ChannelInApp),
	})

	return s.SignIn(u.Principal())
}

func (s *SessionService) emailTaken(ctx context.Context, email string) (bool, error) {
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err := s.Officers.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	return false, nil
}

// SignIn issues a token pair for an already authenticated principal. It
// performs no lookups.
func (s *SessionService) SignIn(p model.Principal) (*AuthResult, error) {
	pair, err := s.issuePair(p)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Message: MsgSuccess, User: p, TokenPair: *pair}, nil
}

func (s *SessionService) issuePair(p model.Principal) (*TokenPair, error) {
	access, err := s.Tokens.IssueAccessToken(p)
	if err != nil {
		return nil, internal(err)
	}
	refresh, err := s.Tokens.IssueRefreshToken(p)
	if err != nil {
		return nil, internal(err)
	}
	return &TokenPair{
		AccessToken:           access.Token,
		AccessTokenExpiresIn:  access.ExpiresAt,
		RefreshToken:          refresh.Token,
		RefreshTokenExpiresIn: refresh.ExpiresAt,
	}, nil
}

// ValidateCredentials looks the email up in the user and officer stores
// concurrently and checks the password against whichever matched. An
// unknown email is a BadRequest; a wrong password is Unauthorized.
func (s *SessionService) ValidateCredentials(ctx context.Context, email, password string) (model.Principal, error) {
	email = repository.NormalizeEmail(email)

	var (
		user    *model.User
		officer *model.Officer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.Users.GetByEmail(gctx, email)
		switch {
		case err == nil:
			user = &u
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("lookup user: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		o, err := s.Officers.GetByEmail(gctx, email)
		switch {
		case err == nil:
			officer = &o
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("lookup officer: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Principal{}, internal(err)
	}

	switch {
	case user != nil && officer != nil:
		s.Log.WithField("email", email).Error("email registered as both user and officer")
		return model.Principal{}, internal(errors.New("ambiguous principal"))
	case user != nil:
		if !s.Hasher.Verify(password, user.PasswordHash) {
			return model.Principal{}, unauthorized(MsgInvalidPassword)
		}
		return user.Principal(), nil
	case officer != nil:
		if !s.Hasher.Verify(password, officer.PasswordHash) {
			return model.Principal{}, unauthorized(MsgInvalidPassword)
		}
		return officer.Principal(), nil
	}
	return model.Principal{}, badRequest(MsgInvalidEmail)
}

// RefreshAccessToken verifies a refresh token, re-reads the principal it
// names and issues a new access token and a new refresh token. Only the id
// in the token is trusted; the profile comes from the store.
func (s *SessionService) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.Tokens.Verify(refreshToken, utils.RefreshToken)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Message: MsgInvalidRefreshToken, Err: err}
	}
	p, err := s.lookupPrincipal(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorized(MsgInvalidRefreshToken)
		}
		return nil, internal(err)
	}
	return s.issuePair(p)
}

func (s *SessionService) lookupPrincipal(ctx context.Context, id string) (model.Principal, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err == nil {
		return u.Principal(), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Principal{}, err
	}
	o, err := s.Officers.GetByID(ctx, id)
	if err != nil {
		return model.Principal{}, err
	}
	return o.Principal(), nil
}

// RefreshCookie is the cookie that carries the refresh token.
const RefreshCookie = "refreshToken"

// ExtractRefreshToken returns the refresh token from a raw Cookie header.
// An empty header, a missing cookie, an empty value and the literal
// "undefined" are all rejected as Unauthorized.
func (s *SessionService) ExtractRefreshToken(header string) (string, error) {
	if header == "" {
		return "", unauthorized(MsgNoCookies)
	}
	token := utils.ParseCookies(header)[RefreshCookie]
	if token == "" {
		return "", unauthorized(MsgRefreshNotFound)
	}
	return token, nil
}

// CompleteOnboarding stores the onboarding profile of userID and marks the
// user onboarded. The national id must not belong to another user.
func (s *SessionService) CompleteOnboarding(ctx context.Context, userID string, o model.Onboarding) (*OnboardingResult, error) {
	if userID == "" {
		return nil, notFound(MsgInvalidUserID)
	}
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(MsgInvalidUserID)
		}
		return nil, internal(err)
	}

	if o.NationalID != "" {
		other, err := s.Users.GetByNationalID(ctx, o.NationalID)
		switch {
		case err == nil && other.ID != userID:
			return nil, conflict(MsgNationalIDInUse)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, internal(err)
		}
	}

	u, err := s.Users.CompleteOnboarding(ctx, userID, o)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNationalIDExists):
			return nil, conflict(MsgNationalIDInUse)
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound(MsgInvalidUserID)
		}
		return nil, internal(err)
	}

	notify(ctx, s.Notifier, s.Log, q.NotificationEvent{
		UserID:  u.ID,
		Title:   "Completed Sign up",
		Message: "Your profile is complete. You can now book appointments.",
		Type:    string(model.NotificationSystemAlert),
		Channel: string(model.ChannelInApp),
	})

	return &OnboardingResult{
		UpdatedUser: u,
		Message:     fmt.Sprintf("You have completed your registration %s.", u.FirstName),
	}, nil
}
