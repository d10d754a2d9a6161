package setting

import (
	"fmt"
	"strconv"
)

// Default display labels. They double as message ids for localization.
const (
	LabelOn      = "ON"
	LabelOff     = "OFF"
	LabelDefault = "<Default>"
	LabelAction  = "..."
)

// DefaultFloatFormat is used when a float setting declares no format.
const DefaultFloatFormat = "%.2f"

// Stringify renders the value for display. OnRead runs first so it can
// refresh the target; then the setting's own formatter is used if set,
// otherwise the kind's default rendering.
func Stringify(env *Env, s *Setting) string {
	if s == nil {
		return ""
	}
	if s.OnRead != nil {
		s.OnRead(s)
	}
	if s.Stringify != nil {
		return s.Stringify(env, s)
	}
	return DefaultString(env, s)
}

// DefaultString is the kind's default rendering, ignoring any per-setting
// formatter.
func DefaultString(env *Env, s *Setting) string {
	if s.Kind == ActionEntry {
		return LabelAction
	}
	if s.Validate() != nil {
		return ""
	}

	switch v := s.Value.(type) {
	case *Scalar[bool]:
		if *v.Target {
			return env.Text(orDefault(s.OnLabel, LabelOn))
		}
		return env.Text(orDefault(s.OffLabel, LabelOff))

	case *Scalar[int]:
		return strconv.Itoa(*v.Target)

	case *Scalar[uint]:
		if s.Kind == Hex {
			return fmt.Sprintf("%08x (%d)", *v.Target, *v.Target)
		}
		if s.Enumerated() {
			for i, ev := range s.EnumValues() {
				if ev == *v.Target && i < len(s.Options) {
					return env.Text(s.Options[i])
				}
			}
		}
		return strconv.FormatUint(uint64(*v.Target), 10)

	case *Scalar[uint64]:
		return strconv.FormatUint(*v.Target, 10)

	case *Scalar[float64]:
		return fmt.Sprintf(orDefault(s.Format, DefaultFloatFormat), *v.Target)

	case *Text:
		switch s.Kind {
		case Path:
			return env.Short(*v.Target)
		case Dir:
			if *v.Target == "" {
				return env.Text(orDefault(s.EmptyLabel, LabelDefault))
			}
		}
		return *v.Target

	case *Binding:
		return v.Target.String()
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
