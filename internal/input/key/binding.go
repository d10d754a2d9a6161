package key

import (
	"fmt"
	"strings"
)

const (
	// NoButton marks an empty joypad button slot.
	NoButton uint16 = 0xFFFF

	// AxisNone marks an empty joypad axis slot.
	AxisNone uint32 = 0xFFFFFFFF
)

// Binding is the value stored by a key-binding setting.
type Binding struct {
	Key       Key
	Rune      rune
	Modifiers Modifier

	Joykey  uint16
	Joyaxis uint32
}

// Unbound returns a binding with every slot empty.
func Unbound() Binding {
	return Binding{Joykey: NoButton, Joyaxis: AxisNone}
}

// FromEvent creates a keyboard-only binding for ev.
func FromEvent(ev Event) Binding {
	return Binding{
		Key:       ev.Key,
		Rune:      ev.Rune,
		Modifiers: ev.Modifiers,
		Joykey:    NoButton,
		Joyaxis:   AxisNone,
	}
}

// Event returns the keyboard part of the binding.
func (b Binding) Event() Event {
	return Event{Key: b.Key, Rune: b.Rune, Modifiers: b.Modifiers}
}

// HasKey reports whether a keyboard key is bound.
func (b Binding) HasKey() bool {
	return b.Key != KeyNone
}

// Matches reports whether ev triggers the keyboard part of b.
func (b Binding) Matches(ev Event) bool {
	return b.HasKey() && b.Event().Equals(ev)
}

// String formats the keyboard part as a key spec, with joypad slots
// appended when set, e.g. "<C-s>", "x (btn 3)", "None".
func (b Binding) String() string {
	s := b.Event().String()
	if b.Joykey != NoButton {
		s += fmt.Sprintf(" (btn %d)", b.Joykey)
	}
	if b.Joyaxis != AxisNone {
		s += fmt.Sprintf(" (axis %d)", b.Joyaxis)
	}
	return s
}

// ParseBinding parses a key spec into a keyboard-only binding. "None"
// clears the key.
func ParseBinding(spec string) (Binding, error) {
	if strings.EqualFold(strings.TrimSpace(spec), "none") {
		return Unbound(), nil
	}
	ev, err := Parse(spec)
	if err != nil {
		return Binding{}, err
	}
	return FromEvent(ev), nil
}

// ID names a logical pad control a binding setting is declared for.
type ID int

const (
	IDB ID = iota
	IDY
	IDSelect
	IDStart
	IDUp
	IDDown
	IDLeft
	IDRight
	IDA
	IDX
	IDL
	IDR
	IDMenuToggle

	idCount
)

var idNames = [idCount]string{
	"b", "y", "select", "start", "up", "down", "left", "right",
	"a", "x", "l", "r", "menu_toggle",
}

// String returns the short control name.
func (id ID) String() string {
	if id < 0 || id >= idCount {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return idNames[id]
}

// IDs returns every control in declaration order.
func IDs() []ID {
	out := make([]ID, idCount)
	for i := range out {
		out[i] = ID(i)
	}
	return out
}

// firstPort holds the compiled-in keyboard defaults of the first port.
// Later ports have no keyboard defaults.
var firstPort = [idCount]Event{
	IDB:          NewRuneEvent('z', ModNone),
	IDY:          NewRuneEvent('a', ModNone),
	IDSelect:     NewSpecialEvent(KeyTab, ModNone),
	IDStart:      NewSpecialEvent(KeyEnter, ModNone),
	IDUp:         NewSpecialEvent(KeyUp, ModNone),
	IDDown:       NewSpecialEvent(KeyDown, ModNone),
	IDLeft:       NewSpecialEvent(KeyLeft, ModNone),
	IDRight:      NewSpecialEvent(KeyRight, ModNone),
	IDA:          NewRuneEvent('x', ModNone),
	IDX:          NewRuneEvent('s', ModNone),
	IDL:          NewRuneEvent('q', ModNone),
	IDR:          NewRuneEvent('w', ModNone),
	IDMenuToggle: NewSpecialEvent(KeyF1, ModNone),
}

// DefaultFor returns the compiled-in default for control id. Port offset 0
// uses the first-port table; every other offset uses the empty table.
// The joypad slots are always empty.
func DefaultFor(portOffset int, id ID) (Binding, bool) {
	if id < 0 || id >= idCount {
		return Binding{}, false
	}
	if portOffset != 0 {
		return Unbound(), true
	}
	return FromEvent(firstPort[id]), true
}
