package key

import "github.com/gdamore/tcell/v2"

var fromTcellKey = map[tcell.Key]Key{
	tcell.KeyRune:       KeyRune,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
	tcell.KeyPause:      KeyPause,
}

var toTcellKey = func() map[Key]tcell.Key {
	m := make(map[Key]tcell.Key, len(fromTcellKey))
	for tk, k := range fromTcellKey {
		if tk == tcell.KeyBackspace {
			continue
		}
		m[k] = tk
	}
	return m
}()

// FromTcell converts a terminal key event. Control-letter codes are
// reported as the letter with ModCtrl.
func FromTcell(ev *tcell.EventKey) Event {
	mods := fromTcellMod(ev.Modifiers())
	tk := ev.Key()

	if tk >= tcell.KeyCtrlA && tk <= tcell.KeyCtrlZ {
		if _, special := fromTcellKey[tk]; !special {
			return Event{
				Key:       KeyRune,
				Rune:      rune('a' + (tk - tcell.KeyCtrlA)),
				Modifiers: mods.With(ModCtrl),
				Timestamp: ev.When(),
			}
		}
	}

	out := Event{Key: fromTcellKey[tk], Modifiers: mods, Timestamp: ev.When()}
	if out.Key == KeyRune {
		out.Rune = ev.Rune()
	}
	return out
}

// ToTcell builds the terminal event that FromTcell maps back to ev.
func ToTcell(ev Event) *tcell.EventKey {
	if ev.Key == KeyRune {
		return tcell.NewEventKey(tcell.KeyRune, ev.Rune, toTcellMod(ev.Modifiers))
	}
	return tcell.NewEventKey(toTcellKey[ev.Key], 0, toTcellMod(ev.Modifiers))
}

func fromTcellMod(m tcell.ModMask) Modifier {
	var out Modifier
	if m&tcell.ModShift != 0 {
		out = out.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		out = out.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		out = out.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		out = out.With(ModMeta)
	}
	return out
}

func toTcellMod(m Modifier) tcell.ModMask {
	var out tcell.ModMask
	if m.Has(ModShift) {
		out |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		out |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		out |= tcell.ModAlt
	}
	if m.Has(ModMeta) {
		out |= tcell.ModMeta
	}
	return out
}
