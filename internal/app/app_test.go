package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/menuconf/internal/catalog"
	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/logger"
)

var ctx = context.Background()

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		ValuesPath: filepath.Join(t.TempDir(), "values.toml"),
		LogOutput:  io.Discard,
	}
}

func newApp(t *testing.T, opts Options) *Application {
	t.Helper()
	app, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(app.Shutdown)
	return app
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("")
	require.NoError(t, scr.Init())
	scr.SetSize(80, 24)
	t.Cleanup(scr.Fini)
	return scr
}

func TestNew(t *testing.T) {
	app := newApp(t, testOptions(t))

	assert.NotNil(t, app.Env().Labels)
	assert.NotNil(t, app.Env().Commands)
	assert.Equal(t, []string{"general", "video", "audio", "input", "paths"}, app.Registry().Groups())
	assert.Zero(t, app.Loaded().Applied, "no values file yet")
	assert.False(t, app.IsRunning())
	assert.Equal(t, 1, app.Bus().Subscribers(catalog.CmdQuit)-app.Bus().Subscribers("nobody"))
}

func TestShutdownIdempotent(t *testing.T) {
	app, err := New(testOptions(t))
	require.NoError(t, err)

	app.Shutdown()
	app.Shutdown()
	assert.True(t, app.Registry().Closed())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name      string
		opts      func(t *testing.T) Options
		component string
	}{
		{"bad config", func(t *testing.T) Options {
			o := testOptions(t)
			o.ConfigPath = writeFile(t, "menuconf.toml", "[navigation\n")
			return o
		}, "config"},
		{"bad log level", func(t *testing.T) Options {
			o := testOptions(t)
			o.LogLevel = "loud"
			return o
		}, "logger"},
		{"bad language", func(t *testing.T) Options {
			o := testOptions(t)
			o.Language = "not a tag!"
			return o
		}, "labels"},
		{"bad plugin", func(t *testing.T) Options {
			o := testOptions(t)
			script := writeFile(t, "bad.lua", "menu.group(")
			o.ConfigPath = writeFile(t, "menuconf.toml", fmt.Sprintf("[plugins]\nscripts = [%q]\n", script))
			return o
		}, "plugins"},
		{"bad values file", func(t *testing.T) Options {
			o := testOptions(t)
			o.ValuesPath = writeFile(t, "values.toml", "video = [")
			return o
		}, "values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts(t))
			var ierr *InitError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, tt.component, ierr.Component)
		})
	}
}

func TestSetSaveReload(t *testing.T) {
	opts := testOptions(t)
	app := newApp(t, opts)

	require.NoError(t, app.Set("video_scale", "2"))
	require.NoError(t, app.Set("audio_driver", "alsa"))
	require.NoError(t, app.Save())

	again := newApp(t, opts)
	assert.Equal(t, 2, again.Loaded().Applied)
	assert.Empty(t, again.Loaded().Failed)
	assert.Equal(t, 2.0, again.Values().Video.Scale)
	assert.Equal(t, "alsa", again.Values().Audio.Driver)

	v, err := again.View("video_scale")
	require.NoError(t, err)
	assert.Equal(t, "2x", v.Value)
	assert.True(t, v.Modified)

	require.NoError(t, again.Reset("video_scale"))
	assert.Equal(t, 3.0, again.Values().Video.Scale)
}

func TestSet_Errors(t *testing.T) {
	app := newApp(t, testOptions(t))

	assert.ErrorIs(t, app.Set("no_such_setting", "1"), ErrUnknownSetting)
	_, err := app.View("no_such_setting")
	assert.ErrorIs(t, err, ErrUnknownSetting)

	err = app.Set("video_vsync", "maybe")
	var oerr *OperationError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "set", oerr.Op)
	assert.True(t, app.Values().Video.VSync, "failed parse leaves the value")
}

func TestSave_NoValuesFile(t *testing.T) {
	assert.ErrorIs(t, (&Application{}).Save(), ErrNoValuesFile)
}

func TestLanguage(t *testing.T) {
	opts := testOptions(t)
	opts.Language = "de-DE"
	app := newApp(t, opts)

	v, err := app.View("video_vsync")
	require.NoError(t, err)
	assert.Equal(t, "AN", v.Value)
}

func TestPlugins(t *testing.T) {
	script := writeFile(t, "extras.lua", `
menu.group("extras")
menu.uint{ name = "extras_speed", default = 2, min = 1, max = 4 }
menu.end_group()
`)
	opts := testOptions(t)
	opts.ConfigPath = writeFile(t, "menuconf.toml", fmt.Sprintf("[plugins]\nscripts = [%q]\n", script))
	app := newApp(t, opts)

	assert.Contains(t, app.Registry().Groups(), "extras")
	require.NoError(t, app.Set("extras_speed", "9"))
	v, err := app.View("extras_speed")
	require.NoError(t, err)
	assert.Equal(t, "4", v.Value)
}

func TestInitRegistry_FailureClosesEveryPlugin(t *testing.T) {
	bad := writeFile(t, "bad.lua", `
menu.group("video")
menu.end_group()
`)
	good := writeFile(t, "good.lua", `
menu.group("extras")
menu.bool{ name = "extras_turbo" }
menu.end_group()
`)
	opts := testOptions(t)
	opts.ConfigPath = writeFile(t, "menuconf.toml", fmt.Sprintf("[plugins]\nscripts = [%q, %q]\n", bad, good))

	b := newBootstrapper(&Application{opts: opts})
	for _, step := range []func() error{b.initConfig, b.initLogger, b.initLabels, b.initEnv, b.initCommands, b.initPlugins} {
		require.NoError(t, step())
	}
	plugins := b.app.plugins
	require.Len(t, plugins, 2)

	err := b.initRegistry()
	var ierr *InitError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "registry", ierr.Component)
	b.cleanup()

	for _, p := range plugins {
		assert.True(t, p.Closed(), "plugin %s left open", p.Name())
	}
}

func TestVerbosityCommand(t *testing.T) {
	app := newApp(t, testOptions(t))

	require.NoError(t, app.Set("log_verbosity", "true"))
	require.NoError(t, app.Bus().Fire(ctx, catalog.CmdLogVerbosity))
	assert.Equal(t, log.DebugLevel, logger.Logger.GetLevel())

	require.NoError(t, app.Set("log_verbosity", "false"))
	require.NoError(t, app.Bus().Fire(ctx, catalog.CmdLogVerbosity))
	assert.Equal(t, log.InfoLevel, logger.Logger.GetLevel())
}

func TestQuitCommand_NotRunning(t *testing.T) {
	app := newApp(t, testOptions(t))
	assert.ErrorIs(t, app.Bus().Fire(ctx, catalog.CmdQuit), ErrNotRunning)
}

func TestRun_FlushesAndSavesOnExit(t *testing.T) {
	opts := testOptions(t)
	app := newApp(t, opts)

	var fired []command.ID
	_, err := app.Bus().Subscribe(catalog.CmdVideoReinit, func(_ context.Context, id command.ID) error {
		fired = append(fired, id)
		return nil
	})
	require.NoError(t, err)

	scr := newScreen(t)
	// general -> video, open it, skip the driver and toggle fullscreen.
	scr.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	scr.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	scr.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	scr.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	scr.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, scr) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("menu did not quit")
	}

	assert.True(t, app.Values().Video.Fullscreen)
	assert.Equal(t, []command.ID{catalog.CmdVideoReinit}, fired, "deferred trigger fires on exit")

	again := newApp(t, opts)
	assert.True(t, again.Values().Video.Fullscreen, "saved on exit")
}

func TestRun_QuitCommand(t *testing.T) {
	app := newApp(t, testOptions(t))
	scr := newScreen(t)

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, scr) }()

	assert.Eventually(t, func() bool {
		return app.Bus().Fire(ctx, catalog.CmdQuit) == nil
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("menu did not stop")
	}
	assert.False(t, app.IsRunning())
}

func TestRun_AlreadyRunning(t *testing.T) {
	app := newApp(t, testOptions(t))
	app.running.Store(true)
	assert.ErrorIs(t, app.Run(ctx, newScreen(t)), ErrAlreadyRunning)
}
