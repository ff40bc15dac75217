package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// CartError carries a user-facing message and one of the kind sentinels above, so callers can
// branch with errors.Is and still show the message.
type CartError struct {
	Kind    error
	Message string
}

func (e *CartError) Error() string { return e.Message }

func (e *CartError) Unwrap() error { return e.Kind }

func invalidArgument(format string, args ...any) error {
	return &CartError{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &CartError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &CartError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Message returns the user-facing text of err, or fallback when err is not a CartError.
func Message(err error, fallback string) string {
	var cartErr *CartError
	if errors.As(err, &cartErr) {
		return cartErr.Message
	}
	return fallback
}
