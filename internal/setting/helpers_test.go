package setting

import (
	"strings"

	"github.com/dshills/menuconf/internal/notify"
	"github.com/dshills/menuconf/internal/setting/bounds"
)

type prefs bool

func (p prefs) Wraparound() bool { return bool(p) }

type paths struct{}

func (paths) Expand(p string) string { return strings.Replace(p, "~", "/home/test", 1) }
func (paths) Short(p string) string  { return "short:" + p }

type labels map[string]string

func (l labels) Text(id string) string {
	if t, ok := l[id]; ok {
		return t
	}
	return id
}

type changes struct{ got []notify.Change }

func (c *changes) Notify(ch notify.Change) { c.got = append(c.got, ch) }

func uintSetting(target *uint, min, max float64) *Setting {
	return &Setting{
		Kind:  Uint,
		Name:  "u",
		Value: NewScalar(target, 0),
		Range: bounds.NewRange(min, max, 1),
		Flags: FlagHasRange,
	}
}
