package command

import (
	"errors"
	"fmt"
)

// Sentinel errors for the command bus.
var (
	// ErrNoCommand is returned when firing the empty command ID.
	ErrNoCommand = errors.New("no command")

	// ErrNilHandler is returned when a nil handler is subscribed.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown ID.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrHandlerPanic is returned when a handler panicked.
	ErrHandlerPanic = errors.New("handler panicked")
)

// HandlerError wraps a failure from a single subscriber.
type HandlerError struct {
	// SubscriptionID identifies the failing subscriber.
	SubscriptionID string

	// Command is the command being fired.
	Command ID

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("command %s: subscriber %s: %v", e.Command, e.SubscriptionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
