package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/setting"
)

// modal is a sub-mode that takes all input until it finishes.
type modal interface {
	// handle processes ev. It returns true once the modal is finished,
	// along with the completion outcome and error.
	handle(ev key.Event) (done bool, out setting.Outcome, err error)
	draw(scr tcell.Screen)
}

// lineEdit is a single-line text editor.
type lineEdit struct {
	req    setting.LineRequest
	buf    []rune
	cursor int
}

func newLineEdit(req setting.LineRequest) *lineEdit {
	buf := []rune(req.Initial)
	return &lineEdit{req: req, buf: buf, cursor: len(buf)}
}

func (e *lineEdit) handle(ev key.Event) (bool, setting.Outcome, error) {
	switch {
	case ev.Key == key.KeyEnter:
		out, err := e.req.Complete(string(e.buf))
		return true, out, err
	case ev.Key == key.KeyEscape:
		if e.req.Cancel != nil {
			e.req.Cancel()
		}
		return true, setting.Handled, nil
	case ev.Key == key.KeyBackspace:
		if e.cursor > 0 {
			e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
			e.cursor--
		}
	case ev.Key == key.KeyDelete:
		if e.cursor < len(e.buf) {
			e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
		}
	case ev.Key == key.KeyLeft:
		e.cursor = max(e.cursor-1, 0)
	case ev.Key == key.KeyRight:
		e.cursor = min(e.cursor+1, len(e.buf))
	case ev.Key == key.KeyHome:
		e.cursor = 0
	case ev.Key == key.KeyEnd:
		e.cursor = len(e.buf)
	case ev.IsRune() && ev.Modifiers == key.ModCtrl && ev.Rune == 'u':
		e.buf, e.cursor = e.buf[:0], 0
	case ev.IsRune() && !ev.IsModified():
		e.buf = append(e.buf[:e.cursor], append([]rune{ev.Rune}, e.buf[e.cursor:]...)...)
		e.cursor++
	}
	return false, setting.Handled, nil
}

func (e *lineEdit) text() string {
	return string(e.buf)
}

func (e *lineEdit) draw(scr tcell.Screen) {
	sw, _ := scr.Size()
	w := max(40, runewidth.StringWidth(e.req.Title)+4)
	w = min(w, sw)
	x, y := box(scr, w, 4)
	drawText(scr, x+1, y, w-2, styleBox.Bold(true), e.req.Title)

	inner := w - 2
	text := e.buf
	start := 0
	if e.cursor >= inner {
		start = e.cursor - inner + 1
	}
	drawText(scr, x+1, y+2, inner, styleBox, string(text[start:]))
	scr.ShowCursor(x+1+runewidth.StringWidth(string(text[start:e.cursor])), y+2)
}

// choice is a dropdown list.
type choice struct {
	req      setting.ChoiceRequest
	selected int
}

func newChoice(req setting.ChoiceRequest) *choice {
	sel := req.Selected
	if sel < 0 || sel >= len(req.Options) {
		sel = 0
	}
	return &choice{req: req, selected: sel}
}

func (c *choice) handle(ev key.Event) (bool, setting.Outcome, error) {
	n := len(c.req.Options)
	switch ev.Key {
	case key.KeyUp:
		if n > 0 {
			c.selected = (c.selected - 1 + n) % n
		}
	case key.KeyDown:
		if n > 0 {
			c.selected = (c.selected + 1) % n
		}
	case key.KeyHome:
		c.selected = 0
	case key.KeyEnd:
		c.selected = max(n-1, 0)
	case key.KeyEnter:
		if n == 0 {
			return true, setting.Handled, nil
		}
		out, err := c.req.Complete(c.selected)
		return true, out, err
	case key.KeyEscape:
		if c.req.Cancel != nil {
			c.req.Cancel()
		}
		return true, setting.Handled, nil
	}
	return false, setting.Handled, nil
}

func (c *choice) draw(scr tcell.Screen) {
	w := runewidth.StringWidth(c.req.Title) + 4
	for _, o := range c.req.Options {
		w = max(w, runewidth.StringWidth(o)+6)
	}
	_, sh := scr.Size()
	rows := min(len(c.req.Options), max(sh-4, 1))
	x, y := box(scr, w, rows+2)
	drawText(scr, x+1, y, w-2, styleBox.Bold(true), c.req.Title)

	first := 0
	if c.selected >= rows {
		first = c.selected - rows + 1
	}
	for i := 0; i < rows && first+i < len(c.req.Options); i++ {
		idx := first + i
		style := styleBox
		mark := "  "
		if idx == c.selected {
			style = styleCursor
			mark = "> "
		}
		drawText(scr, x+1, y+1+i, w-2, style, mark+c.req.Options[idx])
	}
}

// capture waits for the next key and records it as a binding. Escape
// cancels.
type capture struct {
	req setting.BindRequest
}

func (c *capture) handle(ev key.Event) (bool, setting.Outcome, error) {
	if ev.Key == key.KeyEscape && ev.Modifiers == key.ModNone {
		c.cancel()
		return true, setting.Handled, nil
	}
	out, err := c.req.Complete(key.FromEvent(ev))
	return true, out, err
}

func (c *capture) cancel() {
	if c.req.Cancel != nil {
		c.req.Cancel()
	}
}

func (c *capture) draw(scr tcell.Screen) {
	msg := fmt.Sprintf("Press a key for %s (Esc cancels)", c.req.Title)
	w := runewidth.StringWidth(msg) + 4
	x, y := box(scr, w, 3)
	drawText(scr, x+2, y+1, w-4, styleBox, msg)
}
