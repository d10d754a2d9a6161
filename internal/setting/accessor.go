package setting

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/notify"
	"github.com/dshills/menuconf/internal/setting/bounds"
)

// SetFromText parses text according to the setting's kind and stores it.
//
// Numeric kinds read the leading number of text and then apply the range
// when FlagHasRange is set, using the wraparound preference to pick wrap
// or clamp. Bool accepts exactly "true" or "false". Text kinds are
// truncated to the payload capacity. On success OnChange runs and a change
// is published; on failure the value is untouched and a *ParseError is
// returned.
func SetFromText(env *Env, s *Setting, text string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	before := Raw(s)
	if err := parseInto(env, s, text); err != nil {
		return err
	}
	afterMutation(env, s, before, notify.KindSet, "text")
	return nil
}

func parseInto(env *Env, s *Setting, text string) error {
	fail := func(err error) error {
		return &ParseError{Name: s.Name, Kind: s.Kind, Text: text, Err: err}
	}
	policy := bounds.PolicyFor(env.Wraparound())
	r := s.Bounds()

	switch v := s.Value.(type) {
	case *Scalar[bool]:
		switch text {
		case "true":
			*v.Target = true
		case "false":
			*v.Target = false
		default:
			return fail(strconv.ErrSyntax)
		}

	case *Scalar[int]:
		n, err := scanInt(text)
		if err != nil {
			return fail(err)
		}
		*v.Target = bounds.Enforce(n, r, policy)

	case *Scalar[uint]:
		var n uint64
		var err error
		if s.Kind == Hex {
			n, err = scanHex(text)
		} else {
			n, err = scanUint(text, strconv.IntSize)
		}
		if err != nil {
			return fail(err)
		}
		*v.Target = bounds.Enforce(uint(n), r, policy)

	case *Scalar[uint64]:
		n, err := scanUint(text, 64)
		if err != nil {
			return fail(err)
		}
		*v.Target = bounds.Enforce(n, r, policy)

	case *Scalar[float64]:
		f, err := scanFloat(text)
		if err != nil {
			return fail(err)
		}
		*v.Target = bounds.Enforce(f, r, policy)

	case *Text:
		*v.Target = Truncate(text, v.Cap)

	case *Binding:
		b, err := key.ParseBinding(text)
		if err != nil {
			return fail(err)
		}
		*v.Target = b

	default:
		return fmt.Errorf("%w: %s %q", ErrNotSettable, s.Kind, s.Name)
	}
	return nil
}

// ResetToDefault stores the default value. Path and Dir defaults pass
// through path expansion first.
func ResetToDefault(env *Env, s *Setting) error {
	if err := s.Validate(); err != nil {
		return err
	}
	before := Raw(s)

	switch v := s.Value.(type) {
	case *Scalar[bool]:
		*v.Target = v.Default
	case *Scalar[int]:
		*v.Target = v.Default
	case *Scalar[uint]:
		*v.Target = v.Default
	case *Scalar[uint64]:
		*v.Target = v.Default
	case *Scalar[float64]:
		*v.Target = v.Default
	case *Text:
		def := v.Default
		if s.Kind == Path || s.Kind == Dir {
			def = env.Expand(def)
		}
		*v.Target = Truncate(def, v.Cap)
	case *Binding:
		*v.Target = v.Default
	default:
		return fmt.Errorf("%w: %s %q", ErrNotSettable, s.Kind, s.Name)
	}

	afterMutation(env, s, before, notify.KindReset, "reset")
	return nil
}

// Revert restores the value the target held when the setting was built.
func Revert(env *Env, s *Setting) error {
	if err := s.Validate(); err != nil {
		return err
	}
	before := Raw(s)

	switch v := s.Value.(type) {
	case *Scalar[bool]:
		*v.Target = v.Original
	case *Scalar[int]:
		*v.Target = v.Original
	case *Scalar[uint]:
		*v.Target = v.Original
	case *Scalar[uint64]:
		*v.Target = v.Original
	case *Scalar[float64]:
		*v.Target = v.Original
	case *Text:
		*v.Target = v.Original
	case *Binding:
		*v.Target = v.Original
	default:
		return fmt.Errorf("%w: %s %q", ErrNotSettable, s.Kind, s.Name)
	}

	afterMutation(env, s, before, notify.KindRevert, "revert")
	return nil
}

// SetBinding stores a captured binding.
func SetBinding(env *Env, s *Setting, b key.Binding) error {
	if err := s.Validate(); err != nil {
		return err
	}
	v, ok := s.Value.(*Binding)
	if !ok {
		return fmt.Errorf("%w: %s %q is not a binding", ErrKindMismatch, s.Kind, s.Name)
	}
	before := Raw(s)
	*v.Target = b
	afterMutation(env, s, before, notify.KindSet, "capture")
	return nil
}

// Changed runs OnChange and publishes a change when the raw value moved
// away from before. Action handlers that write the target directly call it
// once they are done.
func Changed(env *Env, s *Setting, before, source string) {
	afterMutation(env, s, before, notify.KindSet, source)
}

// Publish reports a change without running OnChange. Settings flagged
// FlagDeferred use it; their handler runs when the trigger is flushed.
func Publish(env *Env, s *Setting, before, source string) {
	publish(env, s, before, notify.KindSet, source)
}

func afterMutation(env *Env, s *Setting, before string, kind notify.Kind, source string) {
	if s.OnChange != nil {
		s.OnChange(s)
	}
	publish(env, s, before, kind, source)
}

func publish(env *Env, s *Setting, before string, kind notify.Kind, source string) {
	after := Raw(s)
	if after == before {
		return
	}
	env.Notify(notify.Change{Path: s.Path(), Kind: kind, Old: before, New: after, Source: source})
}

// Get returns the current value, typed by kind: bool, int, uint, uint64,
// float64, string or key.Binding.
func Get(s *Setting) (any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch v := s.Value.(type) {
	case *Scalar[bool]:
		return *v.Target, nil
	case *Scalar[int]:
		return *v.Target, nil
	case *Scalar[uint]:
		return *v.Target, nil
	case *Scalar[uint64]:
		return *v.Target, nil
	case *Scalar[float64]:
		return *v.Target, nil
	case *Text:
		return *v.Target, nil
	case *Binding:
		return *v.Target, nil
	}
	return nil, fmt.Errorf("%w: %s %q", ErrNotSettable, s.Kind, s.Name)
}

// Default returns the declared default, typed as Get does.
func Default(s *Setting) (any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch v := s.Value.(type) {
	case *Scalar[bool]:
		return v.Default, nil
	case *Scalar[int]:
		return v.Default, nil
	case *Scalar[uint]:
		return v.Default, nil
	case *Scalar[uint64]:
		return v.Default, nil
	case *Scalar[float64]:
		return v.Default, nil
	case *Text:
		return v.Default, nil
	case *Binding:
		return v.Default, nil
	}
	return nil, fmt.Errorf("%w: %s %q", ErrNotSettable, s.Kind, s.Name)
}

// Modified reports whether the current value differs from the default.
// Settings without a value are never modified.
func Modified(s *Setting) bool {
	cur, err := Get(s)
	if err != nil {
		return false
	}
	def, _ := Default(s)
	return cur != def
}

// Raw returns the canonical text of the value, accepted back by
// SetFromText unchanged. Settings without a value return "".
func Raw(s *Setting) string {
	if s == nil {
		return ""
	}
	switch v := s.Value.(type) {
	case *Scalar[bool]:
		if v.Target == nil {
			return ""
		}
		return strconv.FormatBool(*v.Target)
	case *Scalar[int]:
		if v.Target == nil {
			return ""
		}
		return strconv.Itoa(*v.Target)
	case *Scalar[uint]:
		if v.Target == nil {
			return ""
		}
		if s.Kind == Hex {
			return fmt.Sprintf("%08x", *v.Target)
		}
		return strconv.FormatUint(uint64(*v.Target), 10)
	case *Scalar[uint64]:
		if v.Target == nil {
			return ""
		}
		return strconv.FormatUint(*v.Target, 10)
	case *Scalar[float64]:
		if v.Target == nil {
			return ""
		}
		return strconv.FormatFloat(*v.Target, 'g', -1, 64)
	case *Text:
		if v.Target == nil {
			return ""
		}
		return *v.Target
	case *Binding:
		if v.Target == nil {
			return ""
		}
		return v.Target.Event().String()
	}
	return ""
}

// Truncate shortens v to at most capacity bytes without splitting a rune.
// A capacity of zero or less leaves v unchanged.
func Truncate(v string, capacity int) string {
	if capacity <= 0 || len(v) <= capacity {
		return v
	}
	cut := capacity
	for cut > 0 && !utf8.RuneStart(v[cut]) {
		cut--
	}
	return v[:cut]
}

// ScalarOf returns the scalar payload of s if it has element type T.
func ScalarOf[T Scalable](s *Setting) (*Scalar[T], bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Value.(*Scalar[T])
	if !ok || v.Target == nil {
		return nil, false
	}
	return v, true
}

// TextOf returns the text payload of s.
func TextOf(s *Setting) (*Text, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Value.(*Text)
	if !ok || v.Target == nil {
		return nil, false
	}
	return v, true
}

// BindingOf returns the bind payload of s.
func BindingOf(s *Setting) (*Binding, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Value.(*Binding)
	if !ok || v.Target == nil {
		return nil, false
	}
	return v, true
}
