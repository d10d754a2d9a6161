// Package ui is the terminal front-end of the registry.
//
// A Menu lists the groups of a registry, opens a group to show its
// entries, and turns key presses into navigation actions for the
// dispatcher. It is also the Env's LineEditor, Chooser and BindCapturer:
// handlers that need user input open a modal on the menu and the modal
// completes them. Repeated presses of the same key within the repeat gap
// count as a hold, which accelerates stepping.
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/menuconf/internal/dispatch"
	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/logger"
	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
)

// ErrModalOpen is returned when a modal is requested while another one is
// still open.
var ErrModalOpen = errors.New("a modal is already open")

// Options configures a Menu.
type Options struct {
	Title  string
	Keymap Keymap

	// RepeatGap is the longest pause between presses that still counts as
	// holding the key.
	RepeatGap time.Duration
	// CaptureTimeout cancels a bind capture when no key arrives in time.
	// Zero waits forever.
	CaptureTimeout time.Duration

	ShowAdvanced bool
}

type row struct {
	s      *setting.Setting
	header string
}

// Menu is an interactive view of a registry.
type Menu struct {
	screen tcell.Screen
	env    *setting.Env
	disp   *dispatch.Dispatcher
	reg    *registry.Registry
	opts   Options
	keymap Keymap
	hold   *holdTracker
	log    *log.Logger
	now    func() time.Time

	group  string
	rows   []row
	cursor int
	top    int

	modal    modal
	deadline time.Time
	status   string
	quit     bool
}

// New creates a menu drawing on screen and installs it as the modal
// collaborators of env.
func New(screen tcell.Screen, env *setting.Env, opts Options) *Menu {
	if env == nil {
		env = &setting.Env{}
	}
	km := opts.Keymap
	if km == nil {
		km = DefaultKeymap()
	}
	m := &Menu{
		screen: screen,
		env:    env,
		opts:   opts,
		keymap: km,
		hold:   newHoldTracker(opts.RepeatGap),
		log:    logger.Component("ui"),
		now:    time.Now,
	}
	env.Editor, env.Chooser, env.Binds = m, m, m
	m.disp = dispatch.New(env)
	return m
}

// SetRegistry shows reg, starting from the group list.
func (m *Menu) SetRegistry(reg *registry.Registry) {
	m.reg = reg
	m.open("")
}

// Group returns the open group, or "" on the group list.
func (m *Menu) Group() string {
	return m.group
}

// Current returns the entry under the cursor.
func (m *Menu) Current() *setting.Setting {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].s
}

// Status returns the message shown on the status line.
func (m *Menu) Status() string {
	return m.status
}

// Done reports whether the user has left the menu.
func (m *Menu) Done() bool {
	return m.quit
}

// EditLine implements setting.LineEditor.
func (m *Menu) EditLine(req setting.LineRequest) error {
	if m.modal != nil {
		return ErrModalOpen
	}
	m.modal = newLineEdit(req)
	return nil
}

// Choose implements setting.Chooser.
func (m *Menu) Choose(req setting.ChoiceRequest) error {
	if m.modal != nil {
		return ErrModalOpen
	}
	m.modal = newChoice(req)
	return nil
}

// CaptureBind implements setting.BindCapturer.
func (m *Menu) CaptureBind(req setting.BindRequest) error {
	if m.modal != nil {
		return ErrModalOpen
	}
	m.modal = &capture{req: req}
	if d := m.opts.CaptureTimeout; d > 0 {
		m.deadline = m.now().Add(d)
		time.AfterFunc(d, func() {
			_ = m.screen.PostEvent(tcell.NewEventInterrupt(nil))
		})
	}
	return nil
}

// HandleKey processes one terminal key event.
func (m *Menu) HandleKey(ctx context.Context, ev *tcell.EventKey) {
	m.handle(ctx, key.FromTcell(ev))
}

func (m *Menu) handle(ctx context.Context, ev key.Event) {
	at := ev.Timestamp
	if at.IsZero() {
		at = m.now()
	}
	m.status = ""

	if m.modal != nil {
		done, out, err := m.modal.handle(ev)
		if done {
			m.closeModal()
			m.finish(out, err)
		}
		return
	}

	act, ok := m.keymap.Lookup(ev)
	if !ok {
		m.hold.reset()
		if ev.IsRune() && !ev.IsModified() && ev.Rune == 'q' {
			m.quit = true
		}
		return
	}
	m.act(ctx, act, m.hold.observe(ev, at))
}

func (m *Menu) act(ctx context.Context, act setting.Action, hold time.Duration) {
	s := m.Current()

	if s != nil && s.Kind == setting.Group {
		switch act {
		case setting.ActionOk, setting.ActionSelect, setting.ActionRight:
			m.open(s.Name)
			return
		}
	} else if s != nil {
		out, err := m.disp.Dispatch(ctx, s, act, m.disp.Input(hold))
		if out != setting.Unhandled || err != nil {
			m.finish(out, err)
			return
		}
	}

	switch act {
	case setting.ActionUp:
		m.move(-1)
	case setting.ActionDown:
		m.move(+1)
	case setting.ActionCancel:
		m.back()
	}
}

func (m *Menu) finish(out setting.Outcome, err error) {
	if err != nil {
		m.status = err.Error()
		m.log.Warn("action failed", "err", err)
	}
	if out == setting.Exit {
		m.back()
	}
}

func (m *Menu) closeModal() {
	m.modal = nil
	m.deadline = time.Time{}
	m.screen.HideCursor()
}

// Tick cancels a bind capture whose timeout has passed.
func (m *Menu) Tick(now time.Time) {
	c, ok := m.modal.(*capture)
	if !ok || m.deadline.IsZero() || now.Before(m.deadline) {
		return
	}
	c.cancel()
	m.closeModal()
	m.status = "capture timed out"
}

// open shows group, or the group list for "".
func (m *Menu) open(group string) {
	m.group = group
	m.rows = m.rows[:0]
	m.cursor, m.top = 0, 0
	if m.reg == nil {
		return
	}

	for s := range m.reg.Entries() {
		if !m.visible(s) {
			continue
		}
		switch {
		case group == "" && s.Kind == setting.Group:
			m.rows = append(m.rows, row{s: s})
		case group == "" && s.Group == "" && !s.Kind.IsStructural():
			m.rows = append(m.rows, row{s: s})
		case group != "" && s.Group == group && s.Kind == setting.Subgroup:
			m.rows = append(m.rows, row{header: labelOf(m.env, s)})
		case group != "" && s.Group == group && !s.Kind.IsStructural():
			m.rows = append(m.rows, row{s: s})
		}
	}
	m.cursor = m.next(-1, +1)
}

func (m *Menu) visible(s *setting.Setting) bool {
	return m.opts.ShowAdvanced || !s.Flags.Has(setting.FlagAdvanced)
}

// back leaves the open group, or quits from the group list.
func (m *Menu) back() {
	if m.group == "" {
		m.quit = true
		return
	}
	left := m.group
	m.open("")
	for i, r := range m.rows {
		if r.s != nil && r.s.Kind == setting.Group && r.s.Name == left {
			m.cursor = i
		}
	}
}

func (m *Menu) move(dir int) {
	m.cursor = m.next(m.cursor, dir)
}

// next returns the first selectable row after from in direction dir,
// wrapping when the preference asks for it. It returns from when there
// is none.
func (m *Menu) next(from, dir int) int {
	n := len(m.rows)
	for i, steps := from+dir, 0; steps < n; i, steps = i+dir, steps+1 {
		if i < 0 || i >= n {
			if !m.env.Wraparound() {
				break
			}
			i = (i + n) % n
		}
		if m.rows[i].s != nil {
			return i
		}
	}
	if from < 0 {
		return 0
	}
	return from
}

func labelOf(env *setting.Env, s *setting.Setting) string {
	if s.Label != "" {
		return s.Label
	}
	return env.Text(s.Name)
}

// Draw renders the menu and any open modal.
func (m *Menu) Draw() {
	scr := m.screen
	scr.Clear()
	w, h := scr.Size()

	title := m.opts.Title
	if m.group != "" && m.reg != nil {
		if g := m.reg.Find(m.group); g != nil {
			title += " / " + labelOf(m.env, g)
		}
	}
	drawText(scr, 0, 0, w, styleTitle, title)

	height := max(h-3, 1)
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+height {
		m.top = m.cursor - height + 1
	}
	half := w / 2
	for i := 0; i < height && m.top+i < len(m.rows); i++ {
		r := m.rows[m.top+i]
		y := 2 + i
		if r.s == nil {
			drawText(scr, 1, y, w-1, styleHeader, r.header)
			continue
		}

		style, valueStyle := styleNormal, styleNormal
		if setting.Modified(r.s) {
			valueStyle = styleModified
		}
		if m.top+i == m.cursor {
			style, valueStyle = styleCursor, styleCursor
			fill(scr, 0, y, w, 1, styleCursor)
		}
		drawText(scr, 2, y, half-2, style, labelOf(m.env, r.s))

		value := ">"
		if r.s.Kind != setting.Group {
			value = setting.Stringify(m.env, r.s)
		}
		drawRight(scr, half, y, w-half-1, valueStyle, value)
	}

	if m.status != "" {
		drawText(scr, 0, h-1, w, styleStatus, m.status)
	}
	if m.modal != nil {
		m.modal.draw(scr)
	}
	scr.Show()
}

// Run draws the menu and handles events until the user quits or ctx is
// done.
func (m *Menu) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = m.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
	})
	defer stop()

	for !m.quit {
		m.Draw()
		switch ev := m.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			m.HandleKey(ctx, ev)
		case *tcell.EventResize:
			m.screen.Sync()
		case *tcell.EventInterrupt:
			if err, ok := ev.Data().(error); ok {
				return err
			}
			m.Tick(m.now())
		}
	}
	return nil
}
