package registry

import (
	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/setting/bounds"
)

// Decl holds the fields shared by every typed declaration.
type Decl struct {
	Name string
	// Label is the label id; Name is used when empty.
	Label       string
	Description string
	Flags       setting.Flags
	Command     command.ID

	OnChange  func(*setting.Setting)
	OnRead    func(*setting.Setting)
	Stringify setting.Formatter

	// Actions override the kind's default handlers one by one.
	Actions setting.Actions
}

// BoolDecl declares a Bool setting.
type BoolDecl struct {
	Decl
	Target   *bool
	Default  bool
	OnLabel  string
	OffLabel string
}

// IntDecl declares an Int setting.
type IntDecl struct {
	Decl
	Target  *int
	Default int
	// Range is enforced when either bound is enabled.
	Range bounds.Range
}

// UintDecl declares a Uint setting. With Options it is enumerated: the
// value is one of Enum (or an index into Options when Enum is nil).
type UintDecl struct {
	Decl
	Target  *uint
	Default uint
	Range   bounds.Range
	Options []string
	Enum    []uint
}

// SizeDecl declares a Size setting.
type SizeDecl struct {
	Decl
	Target  *uint64
	Default uint64
	Range   bounds.Range
}

// FloatDecl declares a Float setting.
type FloatDecl struct {
	Decl
	Target  *float64
	Default float64
	Range   bounds.Range
	// Format is the display format, e.g. "%.1f".
	Format string
}

// HexDecl declares a Hex setting.
type HexDecl struct {
	Decl
	Target  *uint
	Default uint
	Range   bounds.Range
}

// StringDecl declares a String setting.
type StringDecl struct {
	Decl
	Target  *string
	Default string
	// Cap is the maximum length in bytes; zero means unlimited.
	Cap int
}

// OptionsDecl declares a StringOptions setting.
type OptionsDecl struct {
	Decl
	Target  *string
	Default string
	Options []string
}

// PathDecl declares a Path or Dir setting.
type PathDecl struct {
	Decl
	Target  *string
	Default string
	Cap     int
	// EmptyLabel is shown by Dir settings with no value.
	EmptyLabel string
}

// BindDecl declares a Bind setting. A zero Default takes the built-in
// binding for ID at the template's index offset.
type BindDecl struct {
	Decl
	Target  *key.Binding
	Default key.Binding
	ID      key.ID
}

// ActionDecl declares an Action entry. Target optionally names a string
// shown alongside the entry.
type ActionDecl struct {
	Decl
	Target *string
}

func withRange(s *setting.Setting, r bounds.Range) {
	s.Range = r
	if r.EnforceMin || r.EnforceMax {
		s.Flags |= setting.FlagHasRange
	}
}

// Bool declares a Bool setting.
func (b *Builder) Bool(d BoolDecl) (*setting.Setting, error) {
	s := b.base(setting.Bool, d.Decl, setting.NewScalar(d.Target, d.Default))
	s.OnLabel, s.OffLabel = d.OnLabel, d.OffLabel
	return b.add(s)
}

// Int declares an Int setting.
func (b *Builder) Int(d IntDecl) (*setting.Setting, error) {
	s := b.base(setting.Int, d.Decl, setting.NewScalar(d.Target, d.Default))
	withRange(&s, d.Range)
	return b.add(s)
}

// Uint declares a Uint setting.
func (b *Builder) Uint(d UintDecl) (*setting.Setting, error) {
	s := b.base(setting.Uint, d.Decl, setting.NewScalar(d.Target, d.Default))
	withRange(&s, d.Range)
	s.Options, s.Enum = d.Options, d.Enum
	return b.add(s)
}

// Size declares a Size setting.
func (b *Builder) Size(d SizeDecl) (*setting.Setting, error) {
	s := b.base(setting.Size, d.Decl, setting.NewScalar(d.Target, d.Default))
	withRange(&s, d.Range)
	return b.add(s)
}

// Float declares a Float setting.
func (b *Builder) Float(d FloatDecl) (*setting.Setting, error) {
	s := b.base(setting.Float, d.Decl, setting.NewScalar(d.Target, d.Default))
	withRange(&s, d.Range)
	s.Format = d.Format
	return b.add(s)
}

// Hex declares a Hex setting.
func (b *Builder) Hex(d HexDecl) (*setting.Setting, error) {
	s := b.base(setting.Hex, d.Decl, setting.NewScalar(d.Target, d.Default))
	withRange(&s, d.Range)
	return b.add(s)
}

// String declares a String setting.
func (b *Builder) String(d StringDecl) (*setting.Setting, error) {
	return b.add(b.base(setting.String, d.Decl, setting.NewText(d.Target, d.Cap, d.Default)))
}

// StringOptions declares a StringOptions setting.
func (b *Builder) StringOptions(d OptionsDecl) (*setting.Setting, error) {
	s := b.base(setting.StringOptions, d.Decl, setting.NewText(d.Target, 0, d.Default))
	s.Options = d.Options
	return b.add(s)
}

// Path declares a Path setting.
func (b *Builder) Path(d PathDecl) (*setting.Setting, error) {
	return b.add(b.base(setting.Path, d.Decl, setting.NewText(d.Target, d.Cap, d.Default)))
}

// Dir declares a Dir setting.
func (b *Builder) Dir(d PathDecl) (*setting.Setting, error) {
	s := b.base(setting.Dir, d.Decl, setting.NewText(d.Target, d.Cap, d.Default))
	s.Flags |= setting.FlagPathDir
	s.EmptyLabel = d.EmptyLabel
	return b.add(s)
}

// Bind declares a Bind setting.
func (b *Builder) Bind(d BindDecl) (*setting.Setting, error) {
	def := d.Default
	if def == (key.Binding{}) {
		def, _ = key.DefaultFor(b.indexOffset, d.ID)
	}
	s := b.base(setting.Bind, d.Decl, setting.NewBinding(d.Target, def))
	s.BindID = d.ID
	return b.add(s)
}

// Action declares an Action entry.
func (b *Builder) Action(d ActionDecl) (*setting.Setting, error) {
	var v setting.Value
	if d.Target != nil {
		v = setting.NewText(d.Target, 0, *d.Target)
	}
	return b.add(b.base(setting.ActionEntry, d.Decl, v))
}
