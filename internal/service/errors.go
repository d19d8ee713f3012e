// Package service holds the business logic behind the HTTP handlers:
// sessions, reactions, posts, comments, users and notifications. Services
// depend on small store interfaces so they can be exercised with in-memory
// fakes; the MySQL repositories satisfy them in production.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error is returned by every service operation that fails for a reason the
// caller should see. Message is safe to show to clients; Err, when set, is
// the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// Client-facing messages.
const (
	MsgSuccess             = "Success!"
	MsgCannotHash          = "Cannot hash the given password"
	MsgEmailRegistered     = "The email is already registered."
	MsgInvalidEmail        = "Invalid email."
	MsgInvalidPassword     = "Invalid password"
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgNoCookies           = "No cookies were found"
	MsgRefreshNotFound     = "Refresh token not found"
	MsgInvalidUserID       = "Invalid user id. Please register again"
	MsgNationalIDInUse     = "The provided national Id number is already in use"
	MsgUserNotFound        = "User with the provided id does not exist"
	MsgMissingUserID       = "Cannot find user Id"
	MsgNotificationMissing = "Notification not found"
	MsgInvalidReaction     = "Invalid reaction type"
	MsgEventTitleTaken     = "An event with the same title already exists"
	MsgEventNotFound       = "Cannot find a event for give event id"
	MsgAdminNotFound       = "Cannot find an admin for the given admin id"
	MsgInternal            = "Internal server error"
)

func badRequest(msg string) *Error   { return &Error{Kind: KindBadRequest, Message: msg} }
func unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func notFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

func internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}
