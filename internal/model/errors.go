package model

import "errors"

// ErrorKind classifies domain failures so the API layer can map each one
// to a status code in a single place.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindAlreadyExists
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
)

type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ErrInvalidCredentials covers both "no such user" and "wrong password" so
// login responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = &DomainError{Kind: KindUnauthenticated, Message: "invalid email or password"}

func NewAlreadyExists(msg string) *DomainError {
	return &DomainError{Kind: KindAlreadyExists, Message: msg}
}

func NewForbidden(msg string) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: msg}
}

func NewNotFound(msg string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: msg}
}

func NewValidation(msg string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: msg}
}

// KindOf extracts the kind from an error chain. Anything that is not a
// DomainError counts as internal.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
