// Package apperr carries the error taxonomy shared by services and handlers:
// validation, auth, not-found, conflict and internal faults, each with the
// HTTP status it renders as.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindNotFound
	KindConflict
	KindInternal
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// WithStatus overrides the default status for the kind. Duplicate votes are
// Conflict but answer with 400 for client compatibility.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Status: fiber.StatusBadRequest, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Status: fiber.StatusUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: fiber.StatusNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Status: fiber.StatusConflict, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Status: fiber.StatusInternalServerError, Message: message, err: err}
}

// StatusOf maps any error to the HTTP status it should be served with.
// Unclassified errors are internal faults.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return fiber.StatusInternalServerError
}

// MessageOf returns the client-facing message for err. Unclassified errors
// are masked so store details never leak into responses.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Internal server error"
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
