package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/menuconf/internal/setting"
)

// module returns the functions of the "menu" global.
func (p *Plugin) module() map[string]lua.LGFunction {
	funcs := map[string]lua.LGFunction{
		"group":        p.marker(opGroup, true),
		"end_group":    p.marker(opEndGroup, false),
		"subgroup":     p.marker(opSubgroup, true),
		"end_subgroup": p.marker(opEndSubgroup, false),
		"log":          p.luaLog,
	}
	kinds := map[string]setting.Kind{
		"bool":    setting.Bool,
		"int":     setting.Int,
		"uint":    setting.Uint,
		"size":    setting.Size,
		"float":   setting.Float,
		"hex":     setting.Hex,
		"string":  setting.String,
		"options": setting.StringOptions,
		"path":    setting.Path,
		"dir":     setting.Dir,
		"bind":    setting.Bind,
		"action":  setting.ActionEntry,
	}
	for name, kind := range kinds {
		funcs[name] = p.declare(kind)
	}
	return funcs
}

// marker records a group marker: (name, parent) for openers, (parent) for
// closers.
func (p *Plugin) marker(kind opKind, named bool) lua.LGFunction {
	return func(L *lua.LState) int {
		o := op{kind: kind}
		if named {
			o.name = L.CheckString(1)
			o.parent = L.OptString(2, "")
		} else {
			o.parent = L.OptString(1, "")
		}
		p.ops = append(p.ops, o)
		return 0
	}
}

func (p *Plugin) declare(kind setting.Kind) lua.LGFunction {
	return func(L *lua.LState) int {
		d, err := parseDecl(kind, L.CheckTable(1))
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		p.ops = append(p.ops, op{kind: opSetting, name: d.name, decl: d})
		return 0
	}
}

func (p *Plugin) luaLog(L *lua.LState) int {
	p.log.Info(L.CheckString(1))
	return 0
}

func parseDecl(kind setting.Kind, t *lua.LTable) (*declaration, error) {
	fail := func(format string, args ...any) (*declaration, error) {
		return nil, fmt.Errorf("%w: %s: %s", ErrDeclaration, kind, fmt.Sprintf(format, args...))
	}

	d := &declaration{
		kind: kind,
		def:  t.RawGetString("default"),
		min:  t.RawGetString("min"),
		max:  t.RawGetString("max"),
	}

	var ok bool
	if d.name, ok = optString(t, "name"); !ok || d.name == "" {
		return fail("name is required")
	}
	d.label, _ = optString(t, "label")
	d.description, _ = optString(t, "description")
	d.command, _ = optString(t, "command")
	d.format, _ = optString(t, "format")
	d.emptyLabel, _ = optString(t, "empty_label")

	if n, ok := t.RawGetString("step").(lua.LNumber); ok {
		d.step = float64(n)
	}
	if n, ok := t.RawGetString("cap").(lua.LNumber); ok {
		d.capacity = int(n)
	}
	for _, bound := range []lua.LValue{d.min, d.max} {
		if bound != lua.LNil && bound.Type() != lua.LTNumber {
			return fail("%s: min and max must be numbers", d.name)
		}
	}

	if fn, ok := t.RawGetString("on_change").(*lua.LFunction); ok {
		d.onChange = fn
	}

	if flags, ok := t.RawGetString("flags").(*lua.LTable); ok {
		names := stringList(flags)
		f, unknown := setting.ParseFlags(names...)
		if len(unknown) > 0 {
			return fail("%s: unknown flags %v", d.name, unknown)
		}
		d.flags = f
	}
	if opts, ok := t.RawGetString("options").(*lua.LTable); ok {
		d.options = stringList(opts)
	}
	if vals, ok := t.RawGetString("values").(*lua.LTable); ok {
		for i := 1; i <= vals.Len(); i++ {
			if n, ok := vals.RawGetInt(i).(lua.LNumber); ok && n >= 0 {
				d.enum = append(d.enum, uint(n))
			}
		}
		if len(d.enum) != len(d.options) {
			return fail("%s: values must match options", d.name)
		}
	}

	if err := checkDefault(d); err != nil {
		return fail("%s: %v", d.name, err)
	}
	return d, nil
}

func checkDefault(d *declaration) error {
	if d.def == lua.LNil {
		return nil
	}
	want := lua.LTString
	switch d.kind {
	case setting.Bool:
		want = lua.LTBool
	case setting.Int, setting.Float:
		want = lua.LTNumber
	case setting.Uint, setting.Size, setting.Hex:
		if n, ok := d.def.(lua.LNumber); ok && n < 0 {
			return fmt.Errorf("default %v is negative", n)
		}
		want = lua.LTNumber
	case setting.ActionEntry:
		return fmt.Errorf("actions take no default")
	}
	if d.def.Type() != want {
		return fmt.Errorf("default must be a %s, got %s", want, d.def.Type())
	}
	return nil
}

func optString(t *lua.LTable, field string) (string, bool) {
	s, ok := t.RawGetString(field).(lua.LString)
	return string(s), ok
}

func stringList(t *lua.LTable) []string {
	var out []string
	for i := 1; i <= t.Len(); i++ {
		if s, ok := t.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}
