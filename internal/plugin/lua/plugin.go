package lua

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/logger"
	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/setting/bounds"
)

// Options configures plugin loading.
type Options struct {
	// Timeout bounds the script run and each callback.
	Timeout time.Duration
}

type opKind int

const (
	opGroup opKind = iota
	opEndGroup
	opSubgroup
	opEndSubgroup
	opSetting
)

type op struct {
	kind   opKind
	name   string
	parent string
	decl   *declaration
}

// declaration is one setting as written by the script.
type declaration struct {
	kind        setting.Kind
	name        string
	label       string
	description string
	flags       setting.Flags
	command     string
	def         lua.LValue
	min, max    lua.LValue
	step        float64
	options     []string
	enum        []uint
	format      string
	capacity    int
	emptyLabel  string
	onChange    *lua.LFunction
}

// Plugin is a loaded script and the storage of the settings it declared.
type Plugin struct {
	name  string
	state *State
	store *Store
	ops   []op
	log   *log.Logger
}

// LoadString runs code as a plugin named name.
func LoadString(ctx context.Context, name, code string, opts Options) (*Plugin, error) {
	p := newPlugin(name, opts)
	if err := p.state.DoString(ctx, code); err != nil {
		p.Close()
		return nil, &ScriptError{Plugin: name, Op: "load", Err: err}
	}
	return p, nil
}

// LoadFile runs the script at path. The plugin is named after the file.
func LoadFile(ctx context.Context, path string, opts Options) (*Plugin, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p := newPlugin(name, opts)
	if err := p.state.DoFile(ctx, path); err != nil {
		p.Close()
		return nil, &ScriptError{Plugin: name, Op: "load", Err: err}
	}
	return p, nil
}

// LoadAll loads every path in order. On failure the plugins already loaded
// are closed.
func LoadAll(ctx context.Context, paths []string, opts Options) ([]*Plugin, error) {
	var out []*Plugin
	for _, path := range paths {
		p, err := LoadFile(ctx, path, opts)
		if err != nil {
			for _, loaded := range out {
				loaded.Close()
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func newPlugin(name string, opts Options) *Plugin {
	p := &Plugin{
		name:  name,
		state: NewState(opts.Timeout),
		store: NewStore(),
		log:   logger.Component("plugin").With("plugin", name),
	}
	p.state.RegisterModule("menu", p.module())
	return p
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return p.name
}

// Store returns the plugin's value store.
func (p *Plugin) Store() *Store {
	return p.store
}

// Declared returns the number of settings the script declared.
func (p *Plugin) Declared() int {
	n := 0
	for _, o := range p.ops {
		if o.kind == opSetting {
			n++
		}
	}
	return n
}

// Global returns a global of the plugin's Lua state.
func (p *Plugin) Global(name string) lua.LValue {
	if p.state.IsClosed() {
		return lua.LNil
	}
	return p.state.L.GetGlobal(name)
}

// Closed reports whether the plugin has been closed.
func (p *Plugin) Closed() bool {
	return p.state.IsClosed()
}

// Close releases the Lua state and the plugin's storage.
func (p *Plugin) Close() {
	p.state.Close()
	p.store.Release()
}

// Section returns a registry section declaring the plugin's settings as
// owned entries. Closing the registry closes the plugin.
func (p *Plugin) Section() registry.Section {
	return func(b *registry.Builder) error {
		return b.Owned(p.Close, func(b *registry.Builder) error {
			for _, o := range p.ops {
				if err := p.replay(b, o); err != nil {
					return &ScriptError{Plugin: p.name, Op: "declare " + o.name, Err: err}
				}
			}
			return nil
		})
	}
}

func (p *Plugin) replay(b *registry.Builder, o op) error {
	switch o.kind {
	case opGroup:
		return b.StartGroup(o.name, o.parent)
	case opEndGroup:
		return b.EndGroup(o.parent)
	case opSubgroup:
		return b.StartSubgroup(o.name, o.parent)
	case opEndSubgroup:
		return b.EndSubgroup(o.parent)
	}

	d := o.decl
	base := registry.Decl{
		Name:        d.name,
		Label:       d.label,
		Description: d.description,
		Flags:       d.flags,
		Command:     command.ID(d.command),
		OnChange:    p.onChange(d.onChange),
	}
	rng := d.bounds()

	var err error
	switch d.kind {
	case setting.Bool:
		t := slot(p.store, d.name, lua.LVAsBool(d.def))
		_, err = b.Bool(registry.BoolDecl{Decl: base, Target: t, Default: *t})
	case setting.Int:
		t := slot(p.store, d.name, int(lua.LVAsNumber(d.def)))
		_, err = b.Int(registry.IntDecl{Decl: base, Target: t, Default: *t, Range: rng})
	case setting.Uint:
		t := slot(p.store, d.name, uint(lua.LVAsNumber(d.def)))
		_, err = b.Uint(registry.UintDecl{Decl: base, Target: t, Default: *t, Range: rng, Options: d.options, Enum: d.enum})
	case setting.Hex:
		t := slot(p.store, d.name, uint(lua.LVAsNumber(d.def)))
		_, err = b.Hex(registry.HexDecl{Decl: base, Target: t, Default: *t, Range: rng})
	case setting.Size:
		t := slot(p.store, d.name, uint64(lua.LVAsNumber(d.def)))
		_, err = b.Size(registry.SizeDecl{Decl: base, Target: t, Default: *t, Range: rng})
	case setting.Float:
		t := slot(p.store, d.name, float64(lua.LVAsNumber(d.def)))
		_, err = b.Float(registry.FloatDecl{Decl: base, Target: t, Default: *t, Range: rng, Format: d.format})
	case setting.String:
		t := slot(p.store, d.name, lua.LVAsString(d.def))
		_, err = b.String(registry.StringDecl{Decl: base, Target: t, Default: *t, Cap: d.capacity})
	case setting.StringOptions:
		def := lua.LVAsString(d.def)
		if def == "" && len(d.options) > 0 {
			def = d.options[0]
		}
		t := slot(p.store, d.name, def)
		_, err = b.StringOptions(registry.OptionsDecl{Decl: base, Target: t, Default: def, Options: d.options})
	case setting.Path:
		t := slot(p.store, d.name, lua.LVAsString(d.def))
		_, err = b.Path(registry.PathDecl{Decl: base, Target: t, Default: *t, Cap: d.capacity})
	case setting.Dir:
		t := slot(p.store, d.name, lua.LVAsString(d.def))
		_, err = b.Dir(registry.PathDecl{Decl: base, Target: t, Default: *t, Cap: d.capacity, EmptyLabel: d.emptyLabel})
	case setting.Bind:
		def := key.Unbound()
		if spec := lua.LVAsString(d.def); spec != "" {
			if def, err = key.ParseBinding(spec); err != nil {
				return err
			}
		}
		t := slot(p.store, d.name, def)
		_, err = b.Bind(registry.BindDecl{Decl: base, Target: t, Default: def})
	case setting.ActionEntry:
		_, err = b.Action(registry.ActionDecl{Decl: base})
	default:
		err = fmt.Errorf("%w: kind %s", ErrDeclaration, d.kind)
	}
	return err
}

func (d *declaration) bounds() bounds.Range {
	r := bounds.Range{Step: d.step}
	if n, ok := d.min.(lua.LNumber); ok {
		r.Min, r.EnforceMin = float64(n), true
	}
	if n, ok := d.max.(lua.LNumber); ok {
		r.Max, r.EnforceMax = float64(n), true
	}
	return r
}

// onChange adapts a Lua callback to a change handler. The callback gets
// the new value and the setting name; failures are logged.
func (p *Plugin) onChange(fn *lua.LFunction) func(*setting.Setting) {
	if fn == nil {
		return nil
	}
	return func(s *setting.Setting) {
		v, err := setting.Get(s)
		if err != nil {
			return
		}
		if err := p.state.CallFunc(context.Background(), fn, toLua(v), lua.LString(s.Name)); err != nil {
			p.log.Warn("callback failed", "err", &ScriptError{Plugin: p.name, Op: "on_change " + s.Name, Err: err})
		}
	}
}

func toLua(v any) lua.LValue {
	switch v := v.(type) {
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case uint:
		return lua.LNumber(v)
	case uint64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case key.Binding:
		return lua.LString(v.String())
	}
	return lua.LNil
}
