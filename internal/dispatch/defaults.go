package dispatch

import (
	"context"
	"fmt"

	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/setting/bounds"
)

// Defaults returns the handler table for a setting's kind. This is the
// single place where per-kind navigation behavior is defined; the flags
// and options of s only pick between variants of it.
func Defaults(s *setting.Setting) setting.Actions {
	var a setting.Actions

	switch s.Kind {
	case setting.Bool:
		a = setting.Actions{Left: toggle, Right: toggle, Ok: toggle, Select: toggle, Start: reset}

	case setting.Int:
		a = numeric(stepSigned[int](-1), stepSigned[int](+1))
	case setting.Float:
		a = numeric(stepSigned[float64](-1), stepSigned[float64](+1))
	case setting.Uint:
		if s.Enumerated() {
			a = setting.Actions{Left: cycleEnum(-1), Right: cycleEnum(+1), Ok: chooseEnum, Select: chooseEnum, Start: reset}
			break
		}
		accel := !s.Flags.Has(setting.FlagUnscaled)
		a = numeric(stepUnsigned[uint](-1, accel), stepUnsigned[uint](+1, accel))
	case setting.Size:
		accel := !s.Flags.Has(setting.FlagUnscaled)
		a = numeric(stepUnsigned[uint64](-1, accel), stepUnsigned[uint64](+1, accel))
	case setting.Hex:
		a = numeric(stepUnsigned[uint](-1, false), stepUnsigned[uint](+1, false))

	case setting.String:
		a = setting.Actions{Ok: editLine, Select: editLine, Start: reset}
		if s.Flags.Has(setting.FlagAllowInput) {
			a.Start = clearText
		}
	case setting.Path, setting.Dir:
		a = setting.Actions{Ok: editLine, Select: editLine, Start: clearText}
	case setting.StringOptions:
		a = setting.Actions{Left: cycleOption(-1), Right: cycleOption(+1), Ok: chooseOption, Select: chooseOption, Start: reset}

	case setting.Bind:
		a = setting.Actions{Ok: capture, Select: capture, Start: bindDefault}

	case setting.ActionEntry:
		a = setting.Actions{Ok: fire, Select: fire}
	}

	if s.Flags.Has(setting.FlagAllowInput) && (s.Kind.IsNumeric() && !s.Enumerated()) {
		a.Ok = editLine
		a.Select = editLine
	}
	return a
}

func numeric(left, right setting.ActionFunc) setting.Actions {
	return setting.Actions{Left: left, Right: right, Ok: commit, Select: commit, Start: reset}
}

func kindError(s *setting.Setting) error {
	return fmt.Errorf("%w: %s %q has %T", setting.ErrKindMismatch, s.Kind, s.Name, s.Value)
}

func toggle(_ context.Context, s *setting.Setting, _ setting.Call) (setting.Outcome, error) {
	v, ok := setting.ScalarOf[bool](s)
	if !ok {
		return setting.Unhandled, kindError(s)
	}
	*v.Target = !*v.Target
	return setting.Handled, nil
}

// commit changes nothing; the dispatcher applies the setting afterwards.
func commit(context.Context, *setting.Setting, setting.Call) (setting.Outcome, error) {
	return setting.Handled, nil
}

func reset(_ context.Context, s *setting.Setting, env *setting.Env) (setting.Outcome, error) {
	if err := setting.ResetToDefault(env, s); err != nil {
		return setting.Unhandled, err
	}
	return setting.Handled, nil
}

func clearText(_ context.Context, s *setting.Setting, env *setting.Env) (setting.Outcome, error) {
	v, ok := setting.TextOf(s)
	if !ok {
		return setting.Unhandled, kindError(s)
	}
	before := setting.Raw(s)
	*v.Target = ""
	setting.Changed(env, s, before, "clear")
	return setting.Handled, nil
}

type signed interface{ ~int | ~float64 }

func stepSigned[T signed](dir int) setting.ActionFunc {
	return func(_ context.Context, s *setting.Setting, c setting.Call) (setting.Outcome, error) {
		v, ok := setting.ScalarOf[T](s)
		if !ok {
			return setting.Unhandled, kindError(s)
		}
		r := s.Bounds()
		step := T(r.Step)
		if step == 0 {
			step = 1
		}
		p := bounds.PolicyFor(c.Wraparound)
		if dir < 0 {
			*v.Target = bounds.Sub(*v.Target, step, r, p)
		} else {
			*v.Target = bounds.Add(*v.Target, step, r, p)
		}
		return setting.Handled, nil
	}
}

type unsigned interface{ ~uint | ~uint64 }

func stepUnsigned[T unsigned](dir int, accelerate bool) setting.ActionFunc {
	return func(_ context.Context, s *setting.Setting, c setting.Call) (setting.Outcome, error) {
		v, ok := setting.ScalarOf[T](s)
		if !ok {
			return setting.Unhandled, kindError(s)
		}
		r := s.Bounds()
		base := r.Step
		if base < 1 {
			base = 1
		}
		if accelerate {
			base = c.Env.Scale(base, c.Hold)
		}
		step := T(base)
		p := bounds.PolicyFor(c.Wraparound)
		if dir < 0 {
			*v.Target = bounds.SubUnsigned(*v.Target, step, r, p)
		} else {
			*v.Target = bounds.AddUnsigned(*v.Target, step, r, p)
		}
		return setting.Handled, nil
	}
}

// cycle moves from index cur by dir over n entries, always wrapping.
// An unknown current entry (-1) starts from the edge in the direction of
// travel.
func cycle(cur, dir, n int) int {
	if cur < 0 {
		if dir < 0 {
			return n - 1
		}
		return 0
	}
	return ((cur+dir)%n + n) % n
}

func enumIndex(s *setting.Setting, v uint) int {
	for i, ev := range s.EnumValues() {
		if ev == v {
			return i
		}
	}
	return -1
}

func cycleEnum(dir int) setting.ActionFunc {
	return func(_ context.Context, s *setting.Setting, _ setting.Call) (setting.Outcome, error) {
		v, ok := setting.ScalarOf[uint](s)
		if !ok {
			return setting.Unhandled, kindError(s)
		}
		vals := s.EnumValues()
		if len(vals) == 0 {
			return setting.Unhandled, nil
		}
		*v.Target = vals[cycle(enumIndex(s, *v.Target), dir, len(vals))]
		return setting.Handled, nil
	}
}

func optionIndex(s *setting.Setting, v string) int {
	for i, o := range s.Options {
		if o == v {
			return i
		}
	}
	return -1
}

func cycleOption(dir int) setting.ActionFunc {
	return func(_ context.Context, s *setting.Setting, _ setting.Call) (setting.Outcome, error) {
		v, ok := setting.TextOf(s)
		if !ok {
			return setting.Unhandled, kindError(s)
		}
		if len(s.Options) == 0 {
			return setting.Unhandled, nil
		}
		next := s.Options[cycle(optionIndex(s, *v.Target), dir, len(s.Options))]
		*v.Target = setting.Truncate(next, v.Cap)
		return setting.Handled, nil
	}
}

func title(env *setting.Env, s *setting.Setting) string {
	if s.Label != "" {
		return s.Label
	}
	return env.Text(s.Name)
}

func chooseEnum(ctx context.Context, s *setting.Setting, c setting.Call) (setting.Outcome, error) {
	v, ok := setting.ScalarOf[uint](s)
	if !ok {
		return setting.Unhandled, kindError(s)
	}
	if c.Env == nil || c.Env.Chooser == nil {
		return setting.Unhandled, setting.ErrUnsupported
	}
	vals := s.EnumValues()
	labels := make([]string, len(s.Options))
	for i, o := range s.Options {
		labels[i] = c.Env.Text(o)
	}
	ctx = context.WithoutCancel(ctx)

	err := c.Env.Chooser.Choose(setting.ChoiceRequest{
		Setting:  s,
		Title:    title(c.Env, s),
		Options:  labels,
		Selected: enumIndex(s, *v.Target),
		Complete: func(i int) (setting.Outcome, error) {
			if i < 0 || i >= len(vals) {
				return setting.Handled, fmt.Errorf("choice %d out of range for %s", i, s.Name)
			}
			before := setting.Raw(s)
			*v.Target = vals[i]
			setting.Changed(c.Env, s, before, "choose")
			return c.ApplyNow(ctx, s)
		},
	})
	if err != nil {
		return setting.Unhandled, err
	}
	return setting.Pending, nil
}

func chooseOption(ctx context.Context, s *setting.Setting, c setting.Call) (setting.Outcome, error) {
	v, ok := setting.TextOf(s)
	if !ok {
		return setting.Unhandled, kindError(s)
	}
	if c.Env == nil || c.Env.Chooser == nil {
		return setting.Unhandled, setting.ErrUnsupported
	}
	ctx = context.WithoutCancel(ctx)

	err := c.Env.Chooser.Choose(setting.ChoiceRequest{
		Setting:  s,
		Title:    title(c.Env, s),
		Options:  append([]string(nil), s.Options...),
		Selected: optionIndex(s, *v.Target),
		Complete: func(i int) (setting.Outcome, error) {
			if i < 0 || i >= len(s.Options) {
				return setting.Handled, fmt.Errorf("choice %d out of range for %s", i, s.Name)
			}
			before := setting.Raw(s)
			*v.Target = setting.Truncate(s.Options[i], v.Cap)
			setting.Changed(c.Env, s, before, "choose")
			return c.ApplyNow(ctx, s)
		},
	})
	if err != nil {
		return setting.Unhandled, err
	}
	return setting.Pending, nil
}

func editLine(ctx context.Context, s *setting.Setting, c setting.Call) (setting.Outcome, error) {
	if c.Env == nil || c.Env.Editor == nil {
		return setting.Unhandled, setting.ErrUnsupported
	}
	ctx = context.WithoutCancel(ctx)

	err := c.Env.Editor.EditLine(setting.LineRequest{
		Setting: s,
		Title:   title(c.Env, s),
		Initial: setting.Raw(s),
		Complete: func(text string) (setting.Outcome, error) {
			if text == "" && !s.Flags.Has(setting.FlagAllowEmpty) {
				return setting.Handled, nil
			}
			if err := setting.SetFromText(c.Env, s, text); err != nil {
				return setting.Handled, err
			}
			return c.ApplyNow(ctx, s)
		},
	})
	if err != nil {
		return setting.Unhandled, err
	}
	return setting.Pending, nil
}

func capture(ctx context.Context, s *setting.Setting, c setting.Call) (setting.Outcome, error) {
	if c.Env == nil || c.Env.Binds == nil {
		return setting.Unhandled, setting.ErrUnsupported
	}
	if !s.BeginCapture() {
		return setting.Busy, nil
	}
	ctx = context.WithoutCancel(ctx)

	err := c.Env.Binds.CaptureBind(setting.BindRequest{
		Setting: s,
		Title:   title(c.Env, s),
		Complete: func(b key.Binding) (setting.Outcome, error) {
			s.EndCapture()
			if err := setting.SetBinding(c.Env, s, b); err != nil {
				return setting.Handled, err
			}
			return c.ApplyNow(ctx, s)
		},
		Cancel: s.EndCapture,
	})
	if err != nil {
		s.EndCapture()
		return setting.Unhandled, err
	}
	return setting.Pending, nil
}

// bindDefault restores the compiled-in binding of the setting's port and
// control, with empty joypad slots.
func bindDefault(_ context.Context, s *setting.Setting, env *setting.Env) (setting.Outcome, error) {
	v, ok := setting.BindingOf(s)
	if !ok {
		return setting.Unhandled, kindError(s)
	}
	def, found := key.DefaultFor(s.IndexOffset, s.BindID)
	if !found {
		def = v.Default
	}
	if err := setting.SetBinding(env, s, def); err != nil {
		return setting.Unhandled, err
	}
	return setting.Handled, nil
}

func fire(ctx context.Context, s *setting.Setting, c setting.Call) (setting.Outcome, error) {
	if s.Command.ID.IsNone() {
		return setting.Unhandled, nil
	}
	if err := c.Env.Fire(ctx, s.Command.ID); err != nil {
		return setting.Handled, fmt.Errorf("fire %s: %w", s.Command.ID, err)
	}
	if s.Flags.Has(setting.FlagExitOnApply) {
		return setting.Exit, nil
	}
	return setting.Handled, nil
}
