package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so the transport layer can pick a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a classified, user-facing error. Message is safe to return to clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "email already registered"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "invalid credentials"}
	ErrAdminRequired      = &Error{Kind: KindForbidden, Message: "admin access required"}
	ErrCannotDeleteAdmin  = &Error{Kind: KindForbidden, Message: "cannot delete admin users"}
	ErrCannotDeleteSelf   = &Error{Kind: KindForbidden, Message: "cannot delete yourself"}
	ErrUserHasNews        = &Error{Kind: KindConflict, Message: "user has authored news articles"}

	ErrNewsNotFound = &Error{Kind: KindNotFound, Message: "news article not found"}

	ErrEarthquakeExists = &Error{Kind: KindConflict, Message: "earthquake already exists"}
)

// Validation builds a 400-class error with the given message.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a failure of the external catalog. The cause is part of the message.
func Upstream(msg string, cause error) error {
	return &Error{Kind: KindUpstream, Message: msg, Err: cause}
}

// KindOf reports the kind of err, or KindInternal when err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
