// internal/repository/errors.go
package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound is returned when no task with the id exists in the user's partition
	ErrTaskNotFound = errors.New("task not found")
	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a user with the same email already exists
	ErrEmailTaken = errors.New("email already registered")
	// ErrPermissionDenied is returned when the caller's identity does not own the partition
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnauthenticated is returned when no identity is attached to the context
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ReadError is returned when the backend fails to serve a read
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("store read %s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is returned when the backend fails to apply a write
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the task or user is absent
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrUserNotFound)
}

func readErr(op string, err error) error {
	return &ReadError{Op: op, Err: err}
}

func writeErr(op string, err error) error {
	return &WriteError{Op: op, Err: err}
}
