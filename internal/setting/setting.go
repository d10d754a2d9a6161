// Package setting defines the typed configuration entry and its value
// accessor.
//
// A Setting pairs a Kind with a payload pointing at caller-owned storage,
// plus range, flags, handlers and bound navigation actions. The accessor
// functions in this package (SetFromText, ResetToDefault, Stringify and
// friends) are the only code that reads or writes through the payload.
package setting

import (
	"fmt"

	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/notify"
	"github.com/dshills/menuconf/internal/setting/bounds"
)

// Formatter renders a setting for display.
type Formatter func(env *Env, s *Setting) string

// CommandTrigger links a setting to a command-bus event.
type CommandTrigger struct {
	ID command.ID

	// Triggered is raised when the setting is applied and cleared when
	// the command fires.
	Triggered bool
}

// Setting is one configurable entry.
type Setting struct {
	Kind Kind
	Name string

	// LabelID is the localization id of the label; Label is its resolved
	// text.
	LabelID     string
	Label       string
	Description string

	Group       string
	Subgroup    string
	ParentGroup string

	Value Value
	Range bounds.Range
	Flags Flags

	// Options lists StringOptions values, or the label ids of an
	// enumerated Uint.
	Options []string
	// Enum lists the values of an enumerated Uint; nil means 0..n-1.
	Enum []uint

	// Format is the float display format; empty means "%.2f".
	Format string

	OnLabel    string
	OffLabel   string
	EmptyLabel string

	OnChange func(*Setting)
	OnRead   func(*Setting)

	Actions   Actions
	Stringify Formatter
	Command   CommandTrigger

	Index       int
	IndexOffset int
	BindID      key.ID

	// Owned marks entries whose storage belongs to the registry itself
	// rather than to the caller; it is released on Close.
	Owned bool

	capturing bool
}

// Validate checks that the payload suits the kind and has storage.
func (s *Setting) Validate() error {
	if s == nil {
		return ErrNilSetting
	}

	ok := true
	switch s.Kind {
	case Bool:
		ok = hasTarget[bool](s.Value)
	case Int:
		ok = hasTarget[int](s.Value)
	case Uint, Hex:
		ok = hasTarget[uint](s.Value)
	case Size:
		ok = hasTarget[uint64](s.Value)
	case Float:
		ok = hasTarget[float64](s.Value)
	case Path, Dir, String, StringOptions:
		t, isText := s.Value.(*Text)
		ok = isText && t.Target != nil
	case ActionEntry:
		if s.Value != nil {
			t, isText := s.Value.(*Text)
			ok = isText && t.Target != nil
		}
	case Bind:
		b, isBind := s.Value.(*Binding)
		ok = isBind && b.Target != nil
	case Terminal, Group, Subgroup, EndGroup, EndSubgroup:
		ok = s.Value == nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrKindMismatch, s.Kind)
	}

	if !ok {
		return fmt.Errorf("%w: %s %q has %T", ErrKindMismatch, s.Kind, s.Name, s.Value)
	}
	return nil
}

func hasTarget[T Scalable](v Value) bool {
	sc, ok := v.(*Scalar[T])
	return ok && sc.Target != nil
}

// Bounds returns the range to enforce. Without FlagHasRange, or for
// non-numeric kinds, only the step is kept.
func (s *Setting) Bounds() bounds.Range {
	r := s.Range
	if r.Step == 0 {
		r.Step = 1
	}
	if !s.Kind.IsNumeric() || !s.Flags.Has(FlagHasRange) {
		r.EnforceMin = false
		r.EnforceMax = false
	}
	return r
}

// Path returns "Group/Subgroup/name".
func (s *Setting) Path() string {
	return notify.JoinPath(s.Group, s.Subgroup, s.Name)
}

// Enumerated reports whether an unsigned setting picks from Options.
func (s *Setting) Enumerated() bool {
	return s.Kind == Uint && len(s.Options) > 0
}

// EnumValues returns the values selectable for an enumerated setting.
func (s *Setting) EnumValues() []uint {
	if len(s.Enum) > 0 {
		return s.Enum
	}
	out := make([]uint, len(s.Options))
	for i := range out {
		out[i] = uint(i)
	}
	return out
}

// BeginCapture marks the setting as capturing a binding. It returns false
// if a capture is already in progress.
func (s *Setting) BeginCapture() bool {
	if s.capturing {
		return false
	}
	s.capturing = true
	return true
}

// EndCapture clears the capture mark.
func (s *Setting) EndCapture() {
	s.capturing = false
}

// Capturing reports whether a bind capture is in progress.
func (s *Setting) Capturing() bool {
	return s.capturing
}

// RaiseTrigger marks the command as pending if the setting has one.
func (s *Setting) RaiseTrigger() bool {
	if s.Command.ID.IsNone() {
		return false
	}
	s.Command.Triggered = true
	return true
}

// TakeTrigger clears a raised trigger and returns the command to fire.
func (s *Setting) TakeTrigger() (command.ID, bool) {
	if !s.Command.Triggered {
		return command.None, false
	}
	s.Command.Triggered = false
	return s.Command.ID, true
}
