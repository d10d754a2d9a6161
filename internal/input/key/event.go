package key

import (
	"strings"
	"time"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier

	// Timestamp is when the terminal delivered the event. It is zero for
	// parsed specs.
	Timestamp time.Time
}

// NewRuneEvent creates a character event.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a special key event.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether e is a character key.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified reports whether a modifier other than Shift on a character
// is held.
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// Equals compares key, rune and modifiers, ignoring the timestamp.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String returns the canonical spec, e.g. "a", "<C-s>", "<CR>", "<F1>".
func (e Event) String() string {
	if e.Key == KeyNone {
		return "None"
	}
	if e.IsRune() && !e.IsModified() {
		if e.Rune == ' ' {
			return "<Space>"
		}
		return string(e.Rune)
	}

	parts := e.Modifiers.short(!e.IsRune())
	switch {
	case e.IsRune() && e.Rune == ' ':
		parts = append(parts, "Space")
	case e.IsRune():
		parts = append(parts, string(unicode.ToLower(e.Rune)))
	default:
		parts = append(parts, e.Key.String())
	}
	return "<" + strings.Join(parts, "-") + ">"
}
