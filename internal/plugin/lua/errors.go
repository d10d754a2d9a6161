package lua

import (
	"errors"
	"fmt"
)

// Errors for plugin operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrDeclaration is returned for a malformed menu declaration.
	ErrDeclaration = errors.New("invalid declaration")
)

// ScriptError is a failure while loading or calling into a script.
type ScriptError struct {
	// Plugin is the plugin name.
	Plugin string
	// Op is what was running, e.g. "load" or "on_change video_scale".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("plugin %s: %s: %v", e.Plugin, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
