package perr

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed or missing required input. It aborts the
// requested mutation entirely.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a reference to a record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// AuthorizationError marks a caller that lacks the right to perform the
// requested action.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

func Authorization(format string, args ...any) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// DependencyFailure marks a non-fatal collaborator failure (mail dispatch,
// media upload). It is logged where it happens and never propagated as an
// overall operation failure.
type DependencyFailure struct {
	Op  string
	Err error
}

func (e *DependencyFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyFailure) Unwrap() error { return e.Err }

func Dependency(op string, err error) error {
	return &DependencyFailure{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var t *ValidationError
	return errors.As(err, &t)
}

func IsNotFound(err error) bool {
	var t *NotFoundError
	return errors.As(err, &t)
}

func IsAuthorization(err error) bool {
	var t *AuthorizationError
	return errors.As(err, &t)
}

func IsDependency(err error) bool {
	var t *DependencyFailure
	return errors.As(err, &t)
}
