package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/setting/bounds"
	"github.com/dshills/menuconf/internal/setting/stepscale"
)

type values struct {
	Fullscreen bool
	Scale      uint
	Driver     string
	Title      string
	Debug      bool
	Jump       key.Binding
}

type wrap bool

func (w wrap) Wraparound() bool { return bool(w) }

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("")
	require.NoError(t, scr.Init())
	scr.SetSize(60, 20)
	t.Cleanup(scr.Fini)
	return scr
}

func screenText(scr tcell.Screen) string {
	w, h := scr.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := scr.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func section(v *values) registry.Section {
	return func(b *registry.Builder) error {
		_ = b.StartGroup("video", "")
		_, _ = b.Bool(registry.BoolDecl{Decl: registry.Decl{Name: "video_fullscreen"}, Target: &v.Fullscreen})
		_, _ = b.Uint(registry.UintDecl{
			Decl:   registry.Decl{Name: "video_scale"},
			Target: &v.Scale,
			Range:  bounds.Range{Max: 100, EnforceMax: true},
		})
		_ = b.StartSubgroup("driver", "video")
		_, _ = b.StringOptions(registry.OptionsDecl{
			Decl:    registry.Decl{Name: "video_driver"},
			Target:  &v.Driver,
			Default: "gl",
			Options: []string{"gl", "vulkan", "sdl"},
		})
		_, _ = b.String(registry.StringDecl{Decl: registry.Decl{Name: "video_title"}, Target: &v.Title, Cap: 16})
		_ = b.EndSubgroup("video")
		_, _ = b.Bool(registry.BoolDecl{
			Decl:   registry.Decl{Name: "video_debug", Flags: setting.FlagAdvanced},
			Target: &v.Debug,
		})
		_, _ = b.Action(registry.ActionDecl{Decl: registry.Decl{
			Name:    "video_apply",
			Command: "video.reinit",
			Flags:   setting.FlagExitOnApply,
		}})
		_ = b.EndGroup("")

		_ = b.StartGroup("input", "")
		_, _ = b.Bind(registry.BindDecl{Decl: registry.Decl{Name: "input_jump"}, Target: &v.Jump, ID: key.IDA})
		_ = b.EndGroup("")
		return b.Err()
	}
}

type fixture struct {
	menu *Menu
	scr  tcell.SimulationScreen
	env  *setting.Env
	v    *values
	bus  *command.Bus
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	if opts.RepeatGap == 0 {
		opts.RepeatGap = 5 * time.Second
	}
	if opts.CaptureTimeout == 0 {
		opts.CaptureTimeout = time.Hour
	}
	f := &fixture{
		scr: newScreen(t),
		v:   &values{Driver: "gl"},
		bus: command.NewBus(),
	}
	f.env = &setting.Env{Steps: stepscale.Default(), Commands: f.bus}
	f.menu = New(f.scr, f.env, Options{Title: "Settings", RepeatGap: opts.RepeatGap, CaptureTimeout: opts.CaptureTimeout, ShowAdvanced: opts.ShowAdvanced})

	reg, err := registry.Build(f.env, section(f.v))
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	f.menu.SetRegistry(reg)
	return f
}

func (f *fixture) press(specs ...string) {
	for _, spec := range specs {
		f.menu.handle(context.Background(), key.MustParse(spec))
	}
}

func (f *fixture) current() string {
	if s := f.menu.Current(); s != nil {
		return s.Name
	}
	return ""
}

func TestMenu_GroupList(t *testing.T) {
	f := newFixture(t, Options{})

	assert.Equal(t, "", f.menu.Group())
	assert.Equal(t, "video", f.current())

	f.menu.Draw()
	text := screenText(f.scr)
	assert.Contains(t, text, "Settings")
	assert.Contains(t, text, "video")
	assert.Contains(t, text, "input")

	f.press("<Down>")
	assert.Equal(t, "input", f.current())
	f.press("<Down>")
	assert.Equal(t, "input", f.current(), "no wrap by default")
}

func TestMenu_OpenToggleAndLeave(t *testing.T) {
	f := newFixture(t, Options{})

	f.press("<CR>")
	assert.Equal(t, "video", f.menu.Group())
	assert.Equal(t, "video_fullscreen", f.current())

	f.press("<Right>")
	assert.True(t, f.v.Fullscreen)
	f.menu.Draw()
	assert.Contains(t, screenText(f.scr), "ON")

	f.press("<Esc>")
	assert.Equal(t, "", f.menu.Group())
	assert.Equal(t, "video", f.current())
	assert.False(t, f.menu.Done())

	f.press("<Esc>")
	assert.True(t, f.menu.Done())
}

func TestMenu_SkipsHeadersAndHidesAdvanced(t *testing.T) {
	f := newFixture(t, Options{})
	f.press("<CR>")

	var visited []string
	for range 6 {
		visited = append(visited, f.current())
		f.press("j")
	}
	assert.Equal(t, []string{
		"video_fullscreen", "video_scale", "video_driver", "video_title", "video_apply", "video_apply",
	}, visited)

	f.menu.Draw()
	assert.Contains(t, screenText(f.scr), "driver")
}

func TestMenu_ShowAdvanced(t *testing.T) {
	f := newFixture(t, Options{ShowAdvanced: true})
	f.press("<CR>")
	for range 4 {
		f.press("<Down>")
	}
	assert.Equal(t, "video_debug", f.current())
}

func TestMenu_Wraparound(t *testing.T) {
	f := newFixture(t, Options{})
	f.env.Prefs = wrap(true)

	f.press("<CR>", "<Up>")
	assert.Equal(t, "video_apply", f.current())
	f.press("<Down>")
	assert.Equal(t, "video_fullscreen", f.current())
}

func TestMenu_HoldAccelerates(t *testing.T) {
	f := newFixture(t, Options{})
	f.press("<CR>", "<Down>")
	require.Equal(t, "video_scale", f.current())

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	right := key.NewSpecialEvent(key.KeyRight, key.ModNone)
	left := key.NewSpecialEvent(key.KeyLeft, key.ModNone)
	at := func(ev key.Event, d time.Duration) key.Event {
		ev.Timestamp = t0.Add(d)
		return ev
	}
	ctx := context.Background()

	f.menu.handle(ctx, at(right, 0))
	assert.Equal(t, uint(1), f.v.Scale)

	f.menu.handle(ctx, at(right, 4*time.Second))
	assert.Equal(t, uint(6), f.v.Scale, "held for 4s steps by 5")

	f.menu.handle(ctx, at(left, 4*time.Second+100*time.Millisecond))
	assert.Equal(t, uint(5), f.v.Scale, "a different key starts a new hold")
}

func TestMenu_Chooser(t *testing.T) {
	f := newFixture(t, Options{})
	f.press("<CR>", "<Down>", "<Down>")
	require.Equal(t, "video_driver", f.current())

	f.press("<CR>")
	require.IsType(t, &choice{}, f.menu.modal)
	f.menu.Draw()
	assert.Contains(t, screenText(f.scr), "vulkan")

	f.press("<Down>", "<CR>")
	assert.Nil(t, f.menu.modal)
	assert.Equal(t, "vulkan", f.v.Driver)

	f.press("<CR>", "<Up>", "<Esc>")
	assert.Equal(t, "vulkan", f.v.Driver, "cancel keeps the value")
}

func TestMenu_LineEdit(t *testing.T) {
	f := newFixture(t, Options{})
	f.press("<CR>", "<Down>", "<Down>", "<Down>")
	require.Equal(t, "video_title", f.current())

	f.press("<CR>", "H", "i", "<CR>")
	assert.Equal(t, "Hi", f.v.Title)

	f.press("<CR>", "<BS>", "o", "<Esc>")
	assert.Equal(t, "Hi", f.v.Title, "escape discards the edit")

	f.press("<CR>", "<C-u>", "y", "o", "<Home>", "<Del>", "<CR>")
	assert.Equal(t, "o", f.v.Title)

	f.press("<CR>", "<C-u>", "<CR>")
	assert.Equal(t, "o", f.v.Title, "empty input is ignored")
}

func TestMenu_BindCapture(t *testing.T) {
	f := newFixture(t, Options{})
	f.press("<Down>", "<CR>")
	require.Equal(t, "input_jump", f.current())

	f.press("<CR>")
	require.IsType(t, &capture{}, f.menu.modal)
	assert.True(t, f.menu.Current().Capturing())
	f.press("<C-x>")
	assert.Equal(t, key.FromEvent(key.MustParse("<C-x>")), f.v.Jump)
	assert.False(t, f.menu.Current().Capturing())

	f.press("<CR>", "<Esc>")
	assert.Equal(t, key.FromEvent(key.MustParse("<C-x>")), f.v.Jump)
	assert.False(t, f.menu.Current().Capturing())
}

func TestMenu_CaptureTimeout(t *testing.T) {
	f := newFixture(t, Options{CaptureTimeout: time.Hour})
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.menu.now = func() time.Time { return t0 }
	f.press("<Down>", "<CR>", "<CR>")
	require.NotNil(t, f.menu.modal)

	f.menu.Tick(t0.Add(time.Minute))
	assert.NotNil(t, f.menu.modal)

	f.menu.Tick(t0.Add(2 * time.Hour))
	assert.Nil(t, f.menu.modal)
	assert.Equal(t, "capture timed out", f.menu.Status())
	assert.False(t, f.menu.Current().Capturing())
}

func TestMenu_ExitOnApply(t *testing.T) {
	f := newFixture(t, Options{})
	var fired []command.ID
	_, err := f.bus.Subscribe("video.reinit", func(_ context.Context, id command.ID) error {
		fired = append(fired, id)
		return nil
	})
	require.NoError(t, err)

	f.press("<CR>", "<Up>")
	f.press("<Down>", "<Down>", "<Down>", "<Down>")
	require.Equal(t, "video_apply", f.current())

	f.press("<CR>")
	assert.Equal(t, []command.ID{"video.reinit"}, fired)
	assert.Equal(t, "", f.menu.Group(), "exit-on-apply leaves the group")
}

func TestMenu_ErrorShownOnStatus(t *testing.T) {
	f := newFixture(t, Options{})
	f.env.Commands = nil
	f.press("<CR>")
	for range 4 {
		f.press("<Down>")
	}
	require.Equal(t, "video_apply", f.current())

	f.press("<CR>")
	assert.NotEmpty(t, f.menu.Status())
	f.menu.Draw()
	assert.Contains(t, screenText(f.scr), f.menu.Status()[:10])
}

func TestMenu_ModalOpen(t *testing.T) {
	f := newFixture(t, Options{})
	req := setting.LineRequest{Complete: func(string) (setting.Outcome, error) { return setting.Handled, nil }}
	require.NoError(t, f.menu.EditLine(req))
	assert.ErrorIs(t, f.menu.EditLine(req), ErrModalOpen)
	assert.ErrorIs(t, f.menu.Choose(setting.ChoiceRequest{}), ErrModalOpen)
	assert.ErrorIs(t, f.menu.CaptureBind(setting.BindRequest{}), ErrModalOpen)
}

func TestMenu_Run(t *testing.T) {
	f := newFixture(t, Options{})
	done := make(chan error, 1)
	go func() { done <- f.menu.Run(context.Background()) }()

	f.scr.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("menu did not quit")
	}
}

func TestMenu_RunCancelled(t *testing.T) {
	f := newFixture(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.menu.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("menu did not stop")
	}
}
