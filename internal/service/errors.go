package service

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
)

// Status maps a kind to the HTTP status the API answers with. Conflicts are
// reported as 400 to stay compatible with existing clients.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure the caller is allowed to see. Message is safe to send
// back in a response.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "User already exists with this email"}
	ErrUsernameTaken      = &Error{Kind: KindConflict, Message: "Username is already taken"}
	ErrEmailInUse         = &Error{Kind: KindConflict, Message: "Email is already in use"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrExternalAccount    = &Error{Kind: KindUnauthorized, Message: "Please login with Google"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrWrongPassword      = &Error{Kind: KindUnauthorized, Message: "Current password is incorrect"}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "Invalid or expired token"}
)

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
