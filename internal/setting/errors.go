package setting

import (
	"errors"
	"fmt"
)

// Sentinel errors for setting access.
var (
	// ErrNilSetting is returned when an operation receives no setting.
	ErrNilSetting = errors.New("nil setting")

	// ErrKindMismatch is returned when a payload does not suit the kind.
	ErrKindMismatch = errors.New("payload does not match kind")

	// ErrNilTarget is returned when a payload has no storage.
	ErrNilTarget = errors.New("setting has no target")

	// ErrNotSettable is returned for kinds that hold no value.
	ErrNotSettable = errors.New("setting holds no value")

	// ErrUnsupported is returned when a required collaborator is missing.
	ErrUnsupported = errors.New("operation not supported by environment")

	// ErrBusy is returned while a bind capture is in progress.
	ErrBusy = errors.New("setting is busy")
)

// ParseError reports text that could not be converted for a setting.
// The setting's value is left unchanged.
type ParseError struct {
	Name string
	Kind Kind
	Text string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("setting %s: cannot parse %q as %s: %v", e.Name, e.Text, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
