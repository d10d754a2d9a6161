package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse parses a key specification into an Event.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseBracketed(spec[1 : len(spec)-1])
	}
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parsePlus(spec)
	}
	return parseKey(spec, ModNone, true)
}

// MustParse is Parse for specs known to be valid; it panics otherwise.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification " + spec + ": " + err.Error())
	}
	return ev
}

// parseBracketed handles "C-s", "A-F4", "CR".
func parseBracketed(inner string) (Event, error) {
	parts := strings.Split(inner, "-")
	// "<C-->" names the minus key
	if strings.HasSuffix(inner, "--") {
		parts = append(strings.Split(strings.TrimSuffix(inner, "--"), "-"), "-")
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		if len(strings.TrimSpace(p)) != 1 {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(parts[len(parts)-1], mods, false)
}

// parsePlus handles "Ctrl+S", "Ctrl+Shift+P".
func parsePlus(spec string) (Event, error) {
	parts := strings.Split(spec, "+")
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(parts[len(parts)-1], mods, false)
}

func parseKey(name string, mods Modifier, bare bool) (Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, ErrInvalidSpec
	}

	switch strings.ToLower(name) {
	case "space":
		return NewRuneEvent(' ', mods), nil
	case "lt":
		return NewRuneEvent('<', mods), nil
	case "gt":
		return NewRuneEvent('>', mods), nil
	}
	if k := FromName(name); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(name)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
	}
	r := runes[0]
	switch {
	case bare && unicode.IsUpper(r):
		mods = mods.With(ModShift)
	case mods.Has(ModCtrl):
		r = unicode.ToLower(r)
	}
	return NewRuneEvent(r, mods), nil
}
