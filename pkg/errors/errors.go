package errors

import (
	"errors"
	"fmt"
)

// Application errors surfaced by the contact pipeline

var (
	// ErrInvalidInput indicates a submission failed server-side validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailAuth indicates the mail provider rejected the configured credentials
	ErrEmailAuth = errors.New("email authentication failed")

	// ErrEmailDelivery indicates the notification could not be sent for any other reason
	ErrEmailDelivery = errors.New("email delivery failed")

	// ErrStorage indicates the datastore rejected a read or write
	ErrStorage = errors.New("storage error")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// EmailAuthError wraps a provider authentication failure
func EmailAuthError(err error) error {
	return fmt.Errorf("%w: %w", ErrEmailAuth, err)
}

// EmailDeliveryError wraps any other send failure
func EmailDeliveryError(err error) error {
	return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
}

// StorageError wraps a datastore failure with the operation that failed
func StorageError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, ErrStorage, err)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
