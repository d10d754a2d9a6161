package ui

import (
	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/setting"
)

// Keymap maps key events to navigation actions.
type Keymap map[setting.Action][]key.Event

// DefaultKeymap returns arrow-key and vi-style bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		setting.ActionUp:     {key.MustParse("<Up>"), key.MustParse("k")},
		setting.ActionDown:   {key.MustParse("<Down>"), key.MustParse("j")},
		setting.ActionLeft:   {key.MustParse("<Left>"), key.MustParse("h")},
		setting.ActionRight:  {key.MustParse("<Right>"), key.MustParse("l")},
		setting.ActionOk:     {key.MustParse("<CR>")},
		setting.ActionSelect: {key.MustParse("<Space>")},
		setting.ActionCancel: {key.MustParse("<Esc>"), key.MustParse("<BS>")},
		setting.ActionStart:  {key.MustParse("<Del>"), key.MustParse("r")},
	}
}

// Merge returns a copy of k with the actions in over replacing its own.
func (k Keymap) Merge(over map[setting.Action][]key.Event) Keymap {
	out := make(Keymap, len(k)+len(over))
	for act, evs := range k {
		out[act] = evs
	}
	for act, evs := range over {
		out[act] = evs
	}
	return out
}

// Lookup returns the action bound to ev.
func (k Keymap) Lookup(ev key.Event) (setting.Action, bool) {
	for act := setting.ActionUp; act <= setting.ActionStart; act++ {
		for _, bound := range k[act] {
			if bound.Equals(ev) {
				return act, true
			}
		}
	}
	return setting.ActionNone, false
}
