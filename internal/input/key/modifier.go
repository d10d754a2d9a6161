package key

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// String returns a form like "Ctrl+Alt".
func (m Modifier) String() string {
	var parts []string
	for _, p := range modOrder {
		if m.Has(p.mod) {
			parts = append(parts, p.long)
		}
	}
	return strings.Join(parts, "+")
}

// short returns the prefix letters used inside "<...>" notation.
func (m Modifier) short(includeShift bool) []string {
	var parts []string
	for _, p := range modOrder {
		if p.mod == ModShift && !includeShift {
			continue
		}
		if m.Has(p.mod) {
			parts = append(parts, p.short)
		}
	}
	return parts
}

var modOrder = []struct {
	mod   Modifier
	long  string
	short string
}{
	{ModCtrl, "Ctrl", "C"},
	{ModAlt, "Alt", "A"},
	{ModMeta, "Meta", "D"},
	{ModShift, "Shift", "S"},
}

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"d":       ModMeta,
	"cmd":     ModMeta,
	"super":   ModMeta,
}

// ModifierFromName looks up a modifier by name. It returns ModNone when
// the name is not known.
func ModifierFromName(name string) Modifier {
	return modifierNames[strings.ToLower(strings.TrimSpace(name))]
}
