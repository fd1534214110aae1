package apperr

import "errors"

// Kind classifies a failure so the HTTP layer (and any other caller) can render a precise message.
type Kind string

const (
	InvalidArgument        Kind = "InvalidArgument"
	ComplianceViolation    Kind = "ComplianceViolation"
	AuthorizationError     Kind = "AuthorizationError"
	InsufficientBalance    Kind = "InsufficientBalance"
	CapExceeded            Kind = "CapExceeded"
	InvalidStateTransition Kind = "InvalidStateTransition"
	DuplicatePayment       Kind = "DuplicatePayment"
	AlreadyReturned        Kind = "AlreadyReturned"
	NotFound               Kind = "NotFound"
	AlreadyInState         Kind = "AlreadyInState"
)

// Error implements error so a Kind can be used as an errors.Is target.
func (k Kind) Error() string { return string(k) }

// Error is a domain failure with its taxonomy kind.
type Error struct {
	Kind    Kind
	Message string
}

// New returns a sentinel domain error. Services declare these in their errors.go.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

// Is matches both the same sentinel and its bare Kind, so
// errors.Is(err, apperr.NotFound) holds for every not-found error.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e == t
	}
	return false
}

// KindOf returns the taxonomy kind of err, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
