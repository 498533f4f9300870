// Package common defines shared constants and sentinel errors used across
// client and server layers of authgate. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors. These are the only kinds allowed to cross the
	// HTTP boundary.
	ErrorValidation   = errors.New("validation failed")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorRateLimited  = errors.New("rate limited")
	ErrorInternal     = errors.New("internal error")

	// Token errors (invalid signature, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error carries a caller-visible message together with the sentinel kind it
// belongs to. errors.Is(err, kind) matches through Unwrap.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Unauthorized returns an ErrorUnauthorized-kind error with the given message.
func Unauthorized(msg string) error {
	return &Error{Kind: ErrorUnauthorized, Message: msg}
}

// Conflict returns an ErrorConflict-kind error with the given message.
func Conflict(msg string) error {
	return &Error{Kind: ErrorConflict, Message: msg}
}

// Message extracts the caller-visible message of err. Errors that are not
// *Error fall back to the message of the matching sentinel kind so raw
// collaborator errors never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	for _, kind := range []error{ErrorValidation, ErrorConflict, ErrorUnauthorized, ErrorRateLimited, ErrorNotFound} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ErrorInternal.Error()
}
