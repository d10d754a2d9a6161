// Package pathexp expands special path prefixes and produces the short
// form shown next to path settings.
package pathexp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultWidth is the display width of a short path when none is set.
const DefaultWidth = 32

// Expander resolves "~" to the home directory and ":" to the application
// directory.
type Expander struct {
	Home   string
	AppDir string

	// Width limits Short output in terminal cells. Zero means DefaultWidth.
	Width int
}

// New creates an expander. Empty arguments fall back to the user's home
// directory and the directory of the running executable.
func New(home, appDir string) *Expander {
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if appDir == "" {
		if exe, err := os.Executable(); err == nil {
			appDir = filepath.Dir(exe)
		}
	}
	return &Expander{Home: home, AppDir: appDir}
}

// Expand replaces a leading "~" or ":" with the matching directory.
// Other paths are returned unchanged.
func (e *Expander) Expand(p string) string {
	switch {
	case p == "~" || strings.HasPrefix(p, "~/"):
		return e.join(e.Home, p[1:])
	case p == ":" || strings.HasPrefix(p, ":/"):
		return e.join(e.AppDir, p[1:])
	default:
		return p
	}
}

func (e *Expander) join(base, rest string) string {
	if base == "" {
		return rest
	}
	return filepath.Join(base, rest)
}

// Short returns the base name of p, truncated to the display width with a
// trailing ellipsis. An empty path stays empty.
func (e *Expander) Short(p string) string {
	if p == "" {
		return ""
	}
	base := filepath.Base(filepath.Clean(p))
	width := e.Width
	if width <= 0 {
		width = DefaultWidth
	}
	return runewidth.Truncate(base, width, "…")
}
