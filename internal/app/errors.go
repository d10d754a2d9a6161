package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called while the menu is open.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNotRunning indicates an operation that needs the open menu.
	ErrNotRunning = errors.New("application not running")

	// ErrUnknownSetting indicates a name with no findable setting.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrNoValuesFile indicates persistence is disabled.
	ErrNoValuesFile = errors.New("no values file configured")

	// errQuit is the cancel cause of a quit command.
	errQuit = errors.New("quit requested")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "save", "set")
	Target string // Setting name or file path
	Err    error
}

func (e *OperationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
