package domain

import (
	"errors"
	"fmt"
)

// TransportError covers network failures and server-side faults. The list keeps
// its last good page when one of these surfaces.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": request failed"
}

func (e TransportError) Unwrap() error { return e.Err }

// ValidationError is a user-correctable rejection, routed back to the form
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// NotFoundError means the record is gone, usually deleted by another session
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource != "" && e.ID != "":
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	case e.Resource != "":
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return "not found"
}

func (e NotFoundError) Unwrap() error { return e.Err }

// UnauthorizedError means the session is missing, expired or lacks the role
type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func IsTransport(err error) bool {
	var target TransportError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

// UserMessage extracts the text shown in notifications and forms
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var v ValidationError
	if errors.As(err, &v) {
		return v.Error()
	}
	var t TransportError
	if errors.As(err, &t) && t.Err != nil && t.Status != 0 {
		return t.Err.Error()
	}
	return err.Error()
}
