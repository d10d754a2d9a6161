package setting

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/notify"
)

// Preferences exposes the global navigation preference.
type Preferences interface {
	Wraparound() bool
}

// Localizer resolves label ids to display text.
type Localizer interface {
	Text(id string) string
}

// CommandSink receives fired commands.
type CommandSink interface {
	Fire(ctx context.Context, id command.ID) error
}

// PathResolver expands special path prefixes and shortens paths for
// display.
type PathResolver interface {
	Expand(p string) string
	Short(p string) string
}

// StepScaler accelerates a step by how long input has been held.
type StepScaler interface {
	Scale(step float64, hold time.Duration) float64
}

// ChangeSink receives change notifications.
type ChangeSink interface {
	Notify(notify.Change)
}

// LineRequest opens a line editor for a setting.
type LineRequest struct {
	Setting *Setting
	Title   string
	Initial string

	// Complete is called with the entered text. The returned outcome
	// tells the front-end whether to leave the menu.
	Complete func(text string) (Outcome, error)
	Cancel   func()
}

// LineEditor runs a modal line edit.
type LineEditor interface {
	EditLine(req LineRequest) error
}

// ChoiceRequest opens a dropdown for a setting.
type ChoiceRequest struct {
	Setting  *Setting
	Title    string
	Options  []string
	Selected int

	Complete func(index int) (Outcome, error)
	Cancel   func()
}

// Chooser runs a modal dropdown.
type Chooser interface {
	Choose(req ChoiceRequest) error
}

// BindRequest captures the next physical input for a bind setting.
type BindRequest struct {
	Setting *Setting
	Title   string

	Complete func(b key.Binding) (Outcome, error)
	Cancel   func()
}

// BindCapturer runs a bind capture.
type BindCapturer interface {
	CaptureBind(req BindRequest) error
}

// Env is the explicit context passed to every factory and handler.
// Every field is optional; missing collaborators fall back to neutral
// behavior or make the dependent action unsupported.
type Env struct {
	Prefs    Preferences
	Labels   Localizer
	Commands CommandSink
	Editor   LineEditor
	Chooser  Chooser
	Binds    BindCapturer
	Paths    PathResolver
	Steps    StepScaler
	Changes  ChangeSink
	Logger   *log.Logger
}

var discard = log.New(io.Discard)

// Wraparound returns the current wraparound preference.
func (e *Env) Wraparound() bool {
	return e != nil && e.Prefs != nil && e.Prefs.Wraparound()
}

// Text resolves a label id; unknown or unresolvable ids are returned as is.
func (e *Env) Text(id string) string {
	if e == nil || e.Labels == nil || id == "" {
		return id
	}
	return e.Labels.Text(id)
}

// Expand applies path expansion when a resolver is set.
func (e *Env) Expand(p string) string {
	if e == nil || e.Paths == nil {
		return p
	}
	return e.Paths.Expand(p)
}

// Short returns the display form of a path.
func (e *Env) Short(p string) string {
	if e == nil || e.Paths == nil {
		return p
	}
	return e.Paths.Short(p)
}

// Scale accelerates step for a hold duration; without a scaler the step is
// returned unchanged.
func (e *Env) Scale(step float64, hold time.Duration) float64 {
	if e == nil || e.Steps == nil {
		return step
	}
	return e.Steps.Scale(step, hold)
}

// Fire sends a command to the command sink.
func (e *Env) Fire(ctx context.Context, id command.ID) error {
	if e == nil || e.Commands == nil {
		return ErrUnsupported
	}
	return e.Commands.Fire(ctx, id)
}

// Notify forwards a change when a sink is set.
func (e *Env) Notify(c notify.Change) {
	if e != nil && e.Changes != nil {
		e.Changes.Notify(c)
	}
}

// Log returns the environment logger or a discarding one.
func (e *Env) Log() *log.Logger {
	if e == nil || e.Logger == nil {
		return discard
	}
	return e.Logger
}
