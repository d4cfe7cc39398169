// internal/service/errors.go
package service

import (
	"errors"
	"fmt"

	"github.com/gurkanbulca/taskboard/internal/repository"
)

var (
	// ErrInvalidCredentials is returned by SignIn for an unknown email or wrong password
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", repository.ErrUnauthenticated)
	// ErrInvalidTransition is returned when the transition table forbids a status change
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// unauthenticated tags a token failure so every transport maps it the same way
func unauthenticated(reason string, err error) error {
	return fmt.Errorf("%s: %w: %v", reason, repository.ErrUnauthenticated, err)
}
