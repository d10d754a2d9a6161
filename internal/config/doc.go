// Package config loads menuconf preferences.
//
// Preferences come from three layers, later layers winning: built-in
// defaults, a TOML file, and MENUCONF_* environment variables. A Live value
// holds the current preferences behind an atomic pointer and can follow
// the file with Watch, so the menu thread always reads a consistent
// snapshot while reloads happen in the background.
//
// Example file:
//
//	[navigation]
//	wraparound = true
//
//	[step]
//	thresholds = [
//	  { after = "3s", factor = 5 },
//	  { after = "6s", factor = 10 },
//	]
//
//	[input]
//	repeat_gap = "120ms"
//
//	[input.keys]
//	ok = "<CR>, <Space>"
//	cancel = "<Esc>"
//
//	[log]
//	level = "debug"
package config
