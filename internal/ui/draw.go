package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Styles used by the menu.
var (
	styleNormal   = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleHeader   = tcell.StyleDefault.Dim(true).Underline(true)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleModified = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleBox      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// drawText writes s at (x, y), clipped to width columns. It returns the
// number of columns written.
func drawText(scr tcell.Screen, x, y, width int, style tcell.Style, s string) int {
	col := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > width {
			break
		}
		scr.SetContent(x+col, y, r, nil, style)
		col += w
	}
	return col
}

// drawRight writes s right-aligned so that it ends at column x+width.
func drawRight(scr tcell.Screen, x, y, width int, style tcell.Style, s string) {
	w := runewidth.StringWidth(s)
	if w > width {
		s = runewidth.Truncate(s, width, "…")
		w = runewidth.StringWidth(s)
	}
	drawText(scr, x+width-w, y, w, style, s)
}

// fill paints a rectangle with spaces.
func fill(scr tcell.Screen, x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			scr.SetContent(col, row, ' ', nil, style)
		}
	}
}

// box draws a filled dialog of w by h centered on the screen and returns
// its top-left corner.
func box(scr tcell.Screen, w, h int) (int, int) {
	sw, sh := scr.Size()
	w, h = min(w, sw), min(h, sh)
	x, y := (sw-w)/2, (sh-h)/2
	fill(scr, x, y, w, h, styleBox)
	return x, y
}
