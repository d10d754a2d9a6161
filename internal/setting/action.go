package setting

import (
	"context"
	"time"
)

// Action is a navigation command dispatched against a setting.
type Action uint8

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionSelect
	ActionOk
	ActionCancel
	ActionStart
)

var actionNames = [...]string{"none", "up", "down", "left", "right", "select", "ok", "cancel", "start"}

// String returns the action name.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction maps a name back to an Action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name && i != 0 {
			return Action(i), true
		}
	}
	return ActionNone, false
}

// Mutates reports whether a successful action of this type applies the
// setting afterwards.
func (a Action) Mutates() bool {
	switch a {
	case ActionLeft, ActionRight, ActionSelect, ActionOk:
		return true
	}
	return false
}

// Outcome is the result of handling an action.
type Outcome uint8

const (
	// Unhandled means no handler is bound for the action.
	Unhandled Outcome = iota
	// Handled means the action ran to completion.
	Handled
	// Pending means a modal sub-mode was opened and will finish later.
	Pending
	// Busy means the setting is capturing a binding.
	Busy
	// Exit means the front-end should leave the current menu.
	Exit
)

var outcomeNames = [...]string{"unhandled", "handled", "pending", "busy", "exit"}

// String returns the outcome name.
func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Call carries per-dispatch context into an action handler.
type Call struct {
	Env *Env

	// Wraparound selects wrap over clamp when a bound is exceeded.
	Wraparound bool

	// Hold is how long the directional input has been held.
	Hold time.Duration

	// Apply raises the setting's command trigger and runs the apply
	// policy. Modal handlers call it from their completion callbacks.
	Apply func(ctx context.Context, s *Setting) (Outcome, error)
}

// ApplyNow runs c.Apply when set and reports Handled otherwise.
func (c Call) ApplyNow(ctx context.Context, s *Setting) (Outcome, error) {
	if c.Apply == nil {
		return Handled, nil
	}
	return c.Apply(ctx, s)
}

// ActionFunc handles one action.
type ActionFunc func(ctx context.Context, s *Setting, c Call) (Outcome, error)

// StartFunc handles the Start action, which never depends on wraparound
// or hold time.
type StartFunc func(ctx context.Context, s *Setting, env *Env) (Outcome, error)

// Actions is the per-setting handler table. A nil entry leaves the action
// unbound.
type Actions struct {
	Up     ActionFunc
	Down   ActionFunc
	Left   ActionFunc
	Right  ActionFunc
	Ok     ActionFunc
	Select ActionFunc
	Cancel ActionFunc
	Start  StartFunc
}

// Func returns the handler for a, or nil. Start is not an ActionFunc and
// is reported through Actions.Start.
func (a *Actions) Func(act Action) ActionFunc {
	switch act {
	case ActionUp:
		return a.Up
	case ActionDown:
		return a.Down
	case ActionLeft:
		return a.Left
	case ActionRight:
		return a.Right
	case ActionOk:
		return a.Ok
	case ActionSelect:
		return a.Select
	case ActionCancel:
		return a.Cancel
	}
	return nil
}

// Bound lists the actions with a handler, in declaration order.
func (a *Actions) Bound() []Action {
	var out []Action
	for act := ActionUp; act <= ActionCancel; act++ {
		if a.Func(act) != nil {
			out = append(out, act)
		}
	}
	if a.Start != nil {
		out = append(out, ActionStart)
	}
	return out
}

// Merge fills unset handlers in a from b.
func (a *Actions) Merge(b Actions) {
	fill := func(dst *ActionFunc, src ActionFunc) {
		if *dst == nil {
			*dst = src
		}
	}
	fill(&a.Up, b.Up)
	fill(&a.Down, b.Down)
	fill(&a.Left, b.Left)
	fill(&a.Right, b.Right)
	fill(&a.Ok, b.Ok)
	fill(&a.Select, b.Select)
	fill(&a.Cancel, b.Cancel)
	if a.Start == nil {
		a.Start = b.Start
	}
}
