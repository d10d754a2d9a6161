// Package bounds keeps numeric setting values inside their declared range.
//
// Two policies exist: Clamp pins an out-of-range value to the violated bound,
// Wrap moves it to the opposite bound. The policy is chosen by the caller
// from the single global navigation preference; it is never stored per entry.
//
// Unsigned types get dedicated step helpers so that stepping below zero or
// past the type's maximum is detected before the arithmetic happens.
package bounds

import "math"

// Range describes the numeric domain of a setting.
type Range struct {
	// Min and Max are the inclusive bounds.
	Min float64
	Max float64

	// Step is the base increment used by directional actions.
	Step float64

	// EnforceMin and EnforceMax enable each bound independently.
	EnforceMin bool
	EnforceMax bool
}

// NewRange creates a range enforcing both bounds.
func NewRange(min, max, step float64) Range {
	return Range{Min: min, Max: max, Step: step, EnforceMin: true, EnforceMax: true}
}

// Policy selects what happens when a bound is exceeded.
type Policy uint8

const (
	// Clamp pins the value to the exceeded bound.
	Clamp Policy = iota
	// Wrap moves the value to the opposite bound.
	Wrap
)

// PolicyFor maps the wraparound preference to a Policy.
func PolicyFor(wraparound bool) Policy {
	if wraparound {
		return Wrap
	}
	return Clamp
}

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Clamp:
		return "clamp"
	case Wrap:
		return "wrap"
	default:
		return "unknown"
	}
}

// Number is the set of value types the enforcer handles.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Unsigned is the subset of Number that cannot go below zero.
type Unsigned interface {
	~uint | ~uint32 | ~uint64
}

// Enforce applies the range to v. The upper bound is checked first, then the
// lower one, matching the order used when a value is typed in directly.
func Enforce[T Number](v T, r Range, p Policy) T {
	if r.EnforceMax && float64(v) > r.Max {
		return overMax[T](r, p)
	}
	if r.EnforceMin && float64(v) < r.Min {
		return underMin[T](r, p)
	}
	return v
}

// Add adds step to v and applies the upper bound. A sum that overflows the
// type is treated like AddUnsigned treats it.
func Add[T Number](v, step T, r Range, p Policy) T {
	next := v + step
	if step > 0 && next < v {
		if r.EnforceMax {
			return overMax[T](r, p)
		}
		return v
	}
	if r.EnforceMax && float64(next) > r.Max {
		return overMax[T](r, p)
	}
	return Enforce(next, r, p)
}

// Sub subtracts step from v and applies the lower bound.
// Use SubUnsigned for unsigned types.
func Sub[T Number](v, step T, r Range, p Policy) T {
	next := v - step
	if step > 0 && next > v {
		if r.EnforceMin {
			return underMin[T](r, p)
		}
		return v
	}
	if r.EnforceMin && float64(next) < r.Min {
		return underMin[T](r, p)
	}
	return Enforce(next, r, p)
}

// AddUnsigned adds step to v. A sum that overflows the type is treated as
// exceeding the maximum; without EnforceMax the value is left unchanged.
func AddUnsigned[T Unsigned](v, step T, r Range, p Policy) T {
	next := v + step
	if next < v {
		if r.EnforceMax {
			return overMax[T](r, p)
		}
		return v
	}
	if r.EnforceMax && float64(next) > r.Max {
		return overMax[T](r, p)
	}
	return next
}

// SubUnsigned subtracts step from v without ever crossing zero.
//
// When step exceeds v the subtraction is skipped and the underflow is
// resolved by the policy directly (wrap to Max or clamp to Min). Without
// EnforceMin the value is left unchanged in that case.
func SubUnsigned[T Unsigned](v, step T, r Range, p Policy) T {
	if step > v {
		if r.EnforceMin {
			return underMin[T](r, p)
		}
		return v
	}
	next := v - step
	if r.EnforceMin && float64(next) < r.Min {
		return underMin[T](r, p)
	}
	return next
}

// Contains reports whether v lies within the enforced bounds.
func Contains[T Number](v T, r Range) bool {
	if r.EnforceMin && float64(v) < r.Min {
		return false
	}
	if r.EnforceMax && float64(v) > r.Max {
		return false
	}
	return true
}

func overMax[T Number](r Range, p Policy) T {
	if p == Wrap {
		return convert[T](r.Min)
	}
	return convert[T](r.Max)
}

func underMin[T Number](r Range, p Policy) T {
	if p == Wrap {
		return convert[T](r.Max)
	}
	return convert[T](r.Min)
}

// convert turns a float bound into T, saturating at the representable range
// so that a negative minimum never produces a huge unsigned value.
func convert[T Number](f float64) T {
	var zero T
	if math.IsNaN(f) {
		return zero
	}
	minusOne := zero - 1
	if minusOne > zero && f < 0 {
		// unsigned
		return zero
	}
	return T(f)
}
