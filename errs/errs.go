// Package errs defines the ErrorKind taxonomy shared by the betting engine,
// the Hold'em module, and the table mediator. No component in tablecore
// panics on a bad request; every rejection is a *Error value.
package errs

import (
	"errors"
	"fmt"
)

// Kind tags why an operation was rejected.
type Kind string

const (
	NotSeated            Kind = "NotSeated"
	NotYourTurn          Kind = "NotYourTurn"
	InvalidAmount        Kind = "InvalidAmount"
	IllegalAction        Kind = "IllegalAction"
	InsufficientPlayers  Kind = "InsufficientPlayers"
	WrongPhase           Kind = "WrongPhase"
	RoundClosed          Kind = "RoundClosed"
	UnknownAction        Kind = "UnknownAction"
	InvalidInput         Kind = "InvalidInput"
	Busy                 Kind = "Busy"
)

// Error is the concrete error value every component returns instead of
// panicking. Kind is machine-checkable; Message is for humans/logs.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err carries the given Kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
