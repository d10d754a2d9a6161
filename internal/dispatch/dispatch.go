// Package dispatch routes navigation actions to setting handlers.
//
// Dispatch looks up the handler bound for an action, runs it, and, after a
// successful Left, Right, Select or Ok, applies the setting: the command
// trigger is raised, the change handler runs, and the apply policy decides
// whether the command fires now and whether the menu should be left.
// Handlers that open a modal sub-mode return setting.Pending and apply
// later through Call.Apply from their completion callback.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/menuconf/internal/setting"
)

// Input is the navigation state accompanying an action.
type Input struct {
	Wraparound bool
	Hold       time.Duration
}

// Dispatcher runs actions against settings in one environment.
type Dispatcher struct {
	env *setting.Env
}

// New creates a dispatcher.
func New(env *setting.Env) *Dispatcher {
	if env == nil {
		env = &setting.Env{}
	}
	return &Dispatcher{env: env}
}

// Env returns the dispatcher's environment.
func (d *Dispatcher) Env() *setting.Env {
	return d.env
}

// Input builds an Input from the current wraparound preference.
func (d *Dispatcher) Input(hold time.Duration) Input {
	return Input{Wraparound: d.env.Wraparound(), Hold: hold}
}

// Dispatch runs act against s.
func (d *Dispatcher) Dispatch(ctx context.Context, s *setting.Setting, act setting.Action, in Input) (setting.Outcome, error) {
	if s == nil {
		return setting.Unhandled, setting.ErrNilSetting
	}
	logger := d.env.Log().With("setting", s.Name, "action", act)

	if (act == setting.ActionOk || act == setting.ActionSelect) && s.Capturing() {
		logger.Debug("busy")
		return setting.Busy, nil
	}

	if act == setting.ActionStart {
		if s.Actions.Start == nil {
			return setting.Unhandled, nil
		}
		out, err := s.Actions.Start(ctx, s, d.env)
		logger.Debug("dispatched", "outcome", out, "err", err)
		return out, err
	}

	fn := s.Actions.Func(act)
	if fn == nil {
		return setting.Unhandled, nil
	}

	before := setting.Raw(s)
	out, err := fn(ctx, s, setting.Call{
		Env:        d.env,
		Wraparound: in.Wraparound,
		Hold:       in.Hold,
		Apply:      d.apply,
	})
	if err != nil {
		logger.Debug("handler failed", "err", err)
		return out, err
	}

	if out == setting.Handled && act.Mutates() && s.Kind != setting.ActionEntry {
		out, err = d.finalize(ctx, s, before, act)
	}
	logger.Debug("dispatched", "outcome", out, "err", err)
	return out, err
}

func (d *Dispatcher) finalize(ctx context.Context, s *setting.Setting, before string, act setting.Action) (setting.Outcome, error) {
	s.RaiseTrigger()
	if s.Flags.Has(setting.FlagDeferred) {
		setting.Publish(d.env, s, before, act.String())
	} else {
		setting.Changed(d.env, s, before, act.String())
	}
	return d.commit(ctx, s)
}

// apply is handed to handlers as Call.Apply.
func (d *Dispatcher) apply(ctx context.Context, s *setting.Setting) (setting.Outcome, error) {
	s.RaiseTrigger()
	return d.commit(ctx, s)
}

// commit fires a raised trigger when the setting asks for it.
func (d *Dispatcher) commit(ctx context.Context, s *setting.Setting) (setting.Outcome, error) {
	if !s.Command.Triggered {
		return setting.Handled, nil
	}

	switch {
	case s.Flags.Has(setting.FlagExitOnApply):
		id, _ := s.TakeTrigger()
		if err := d.env.Fire(ctx, id); err != nil {
			return setting.Handled, fmt.Errorf("apply %s: %w", s.Name, err)
		}
		return setting.Exit, nil

	case s.Flags.Has(setting.FlagApplyAuto):
		id, _ := s.TakeTrigger()
		if err := d.env.Fire(ctx, id); err != nil {
			return setting.Handled, fmt.Errorf("apply %s: %w", s.Name, err)
		}
	}
	return setting.Handled, nil
}
