package setting

import "fmt"

// Kind is the type tag of a setting. The order is significant: every kind
// up to and including Group can be found by name, and Terminal ends the
// registry.
type Kind uint8

const (
	Terminal Kind = iota
	ActionEntry
	Bool
	Int
	Uint
	Size
	Float
	Path
	Dir
	String
	StringOptions
	Hex
	Bind
	Group
	Subgroup
	EndGroup
	EndSubgroup
)

var kindNames = [...]string{
	Terminal:      "terminal",
	ActionEntry:   "action",
	Bool:          "bool",
	Int:           "int",
	Uint:          "uint",
	Size:          "size",
	Float:         "float",
	Path:          "path",
	Dir:           "dir",
	String:        "string",
	StringOptions: "string_options",
	Hex:           "hex",
	Bind:          "bind",
	Group:         "group",
	Subgroup:      "subgroup",
	EndGroup:      "end_group",
	EndSubgroup:   "end_subgroup",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Findable reports whether lookups by name consider this kind.
func (k Kind) Findable() bool {
	return k != Terminal && k <= Group
}

// IsNumeric reports whether the kind carries a range.
func (k Kind) IsNumeric() bool {
	switch k {
	case Int, Uint, Size, Float, Hex:
		return true
	}
	return false
}

// IsStructural reports whether the kind is a group delimiter.
func (k Kind) IsStructural() bool {
	return k >= Group
}

// IsText reports whether the kind stores a string.
func (k Kind) IsText() bool {
	switch k {
	case Path, Dir, String, StringOptions:
		return true
	}
	return false
}
