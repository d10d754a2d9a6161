package setting

import "strings"

// Flags modify how a setting behaves.
type Flags uint32

const (
	// FlagAllowEmpty accepts an empty string from line edit.
	FlagAllowEmpty Flags = 1 << iota
	// FlagHasRange enables Range enforcement on numeric kinds.
	FlagHasRange
	// FlagAllowInput binds typed input to Ok/Select.
	FlagAllowInput
	// FlagPushAction marks an entry that opens a sub-menu.
	FlagPushAction
	// FlagAdvanced hides the entry unless advanced settings are shown.
	FlagAdvanced
	// FlagExitOnApply fires the command and leaves the menu on apply.
	FlagExitOnApply
	// FlagApplyAuto fires the command as soon as it is raised.
	FlagApplyAuto
	// FlagPathDir marks a path that must name a directory.
	FlagPathDir
	// FlagBrowserAction opens a file browser instead of line edit.
	FlagBrowserAction
	// FlagDeferred postpones the change handler of navigation actions
	// until the command trigger is flushed.
	FlagDeferred
	// FlagUnscaled disables hold acceleration on unsigned kinds.
	FlagUnscaled
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagAllowEmpty, "allow_empty"},
	{FlagHasRange, "has_range"},
	{FlagAllowInput, "allow_input"},
	{FlagPushAction, "push_action"},
	{FlagAdvanced, "advanced"},
	{FlagExitOnApply, "exit_on_apply"},
	{FlagApplyAuto, "apply_auto"},
	{FlagPathDir, "path_dir"},
	{FlagBrowserAction, "browser_action"},
	{FlagDeferred, "deferred"},
	{FlagUnscaled, "unscaled"},
}

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String lists the set flags separated by "|".
func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlags parses names as produced by String. Unknown names are
// returned so callers can report them.
func ParseFlags(names ...string) (Flags, []string) {
	var f Flags
	var unknown []string
outer:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		for _, fn := range flagNames {
			if fn.name == n {
				f |= fn.flag
				continue outer
			}
		}
		unknown = append(unknown, n)
	}
	return f, unknown
}
