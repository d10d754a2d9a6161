// Package key models keyboard input for the settings menu and for
// key-binding settings.
//
// An Event is one key press as delivered by the terminal. A Binding is the
// stored value of a bind setting: an optional keyboard key plus the joypad
// button and axis slots, which stay empty unless a driver fills them.
//
// Key specifications accept the same notations in config files, on the
// command line and in line edit:
//
//	"a", "A", "F1", "Enter", "Space"
//	"Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//	"<C-s>", "<A-f>", "<CR>", "<Esc>"
//
// Events and Bindings format back to the "<...>" notation so that a value
// survives a round trip through its string form.
package key
