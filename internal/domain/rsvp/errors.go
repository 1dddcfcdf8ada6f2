package rsvp

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("rsvp: invalid confirmation")
	ErrPersistence = errors.New("rsvp: storage failure")
)

// MsgInvalidName is what the guest sees when the name is rejected.
const MsgInvalidName = "Por favor ingresa tu nombre completo."

type ValidationError struct {
	Field string
	Rule  string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rsvp: field %q failed %s validation", e.Field, e.Rule)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Message is the localized, user facing explanation.
func (e *ValidationError) Message() string {
	return MsgInvalidName
}

// PersistenceError wraps whatever the store returned. The cause is for
// operators only and never leaves the process in a response body.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "rsvp: " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
