package util

import (
	"errors"
	"fmt"
)

// Kinds of business failure. Match with errors.Is.
var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid user state")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
)

// AppError is a business failure carrying one of the kinds above and a
// message that is safe to show to the client.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *AppError) Is(target error) bool {
	return e.Kind == target
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

func Forbiddenf(format string, args ...any) error {
	return &AppError{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidStatef(format string, args ...any) error {
	return &AppError{Kind: ErrInvalidState, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func BadRequestf(format string, args ...any) error {
	return &AppError{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}
