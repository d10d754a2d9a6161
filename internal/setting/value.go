package setting

import "github.com/dshills/menuconf/internal/input/key"

// Value is the typed payload of a setting. Only the types in this package
// implement it, and each is valid for a fixed set of kinds (see Validate).
//
// Payloads never own their storage: Target points into a structure held by
// the caller, which must outlive the registry.
type Value interface {
	payload()
}

// Scalable is the set of scalar payload types.
type Scalable interface {
	~bool | ~int | ~uint | ~uint64 | ~float64
}

// Scalar is the payload of Bool, Int, Uint, Size, Float and Hex settings.
type Scalar[T Scalable] struct {
	Target   *T
	Default  T
	Original T
}

func (*Scalar[T]) payload() {}

// NewScalar creates a payload and snapshots the current target value as
// the original.
func NewScalar[T Scalable](target *T, def T) *Scalar[T] {
	s := &Scalar[T]{Target: target, Default: def}
	if target != nil {
		s.Original = *target
	}
	return s
}

// Text is the payload of String, StringOptions, Path and Dir settings.
type Text struct {
	Target *string

	// Cap is the maximum length in bytes. Zero means unlimited.
	Cap int

	Default  string
	Original string
}

func (*Text) payload() {}

// NewText creates a text payload.
func NewText(target *string, capacity int, def string) *Text {
	t := &Text{Target: target, Cap: capacity, Default: def}
	if target != nil {
		t.Original = *target
	}
	return t
}

// Binding is the payload of Bind settings.
type Binding struct {
	Target   *key.Binding
	Default  key.Binding
	Original key.Binding
}

func (*Binding) payload() {}

// NewBinding creates a bind payload.
func NewBinding(target *key.Binding, def key.Binding) *Binding {
	b := &Binding{Target: target, Default: def}
	if target != nil {
		b.Original = *target
	}
	return b
}
