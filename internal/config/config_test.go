package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/setting"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "menuconf.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// replaceFile swaps content in by rename so watchers never see a partial
// file.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.False(t, cfg.Navigation.Wraparound)
	assert.Equal(t, 150*time.Millisecond, cfg.Input.RepeatGap.Std())
	assert.Len(t, cfg.Step.Thresholds, 7)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
[navigation]
wraparound = true

[step]
thresholds = [
  { after = "1s", factor = 2 },
  { after = "2s", factor = 4 },
]

[paths]
home = "/home/player"
values = "values.toml"

[input]
repeat_gap = "80ms"
capture_timeout = "5s"

[input.keys]
ok = "<CR>, <Space>"
cancel = "<Esc>"

[log]
level = "debug"

[ui]
language = "de-DE"
show_advanced = true

[plugins]
scripts = ["a.lua", "b.lua"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Navigation.Wraparound)
	assert.Equal(t, "/home/player", cfg.Paths.Home)
	assert.Equal(t, 80*time.Millisecond, cfg.Input.RepeatGap.Std())
	assert.Equal(t, 5*time.Second, cfg.Input.CaptureTimeout.Std())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "de-DE", cfg.UI.Language)
	assert.True(t, cfg.UI.ShowAdvanced)
	assert.Equal(t, []string{"a.lua", "b.lua"}, cfg.Plugins.Scripts)

	sc, err := cfg.Scaler()
	require.NoError(t, err)
	assert.Equal(t, 4.0, sc.Multiplier(3*time.Second))

	km, err := cfg.Keymap()
	require.NoError(t, err)
	assert.Equal(t, []key.Event{key.NewSpecialEvent(key.KeyEnter, key.ModNone), key.NewRuneEvent(' ', key.ModNone)}, km[setting.ActionOk])
	assert.Len(t, km[setting.ActionCancel], 1)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "[navigation]\nwraparound = false\n")
	t.Setenv("MENUCONF_WRAPAROUND", "true")
	t.Setenv("MENUCONF_LOG_LEVEL", "warn")
	t.Setenv("MENUCONF_REPEAT_GAP", "1s")
	t.Setenv("MENUCONF_PLUGINS", "x.lua,y.lua")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Navigation.Wraparound)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.Input.RepeatGap.Std())
	assert.Equal(t, []string{"x.lua", "y.lua"}, cfg.Plugins.Scripts)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "syntax",
			content: "[navigation\nwraparound = true\n",
			check: func(t *testing.T, err error) {
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				assert.Positive(t, perr.Line)
			},
		},
		{
			name:    "unknown key",
			content: "[navigation]\nwrap = true\n",
			check: func(t *testing.T, err error) {
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				assert.Contains(t, perr.Message, "unknown keys")
			},
		},
		{
			name:    "bad duration",
			content: "[input]\nrepeat_gap = \"soon\"\n",
			check: func(t *testing.T, err error) {
				var perr *ParseError
				assert.True(t, errors.As(err, &perr))
			},
		},
		{
			name:    "unknown action",
			content: "[input.keys]\njump = \"j\"\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidationFailed)
				assert.ErrorIs(t, err, ErrUnknownAction)
			},
		},
		{
			name:    "bad key spec",
			content: "[input.keys]\nok = \"<X-q>\"\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, key.ErrInvalidSpec)
			},
		},
		{
			name:    "negative threshold",
			content: "[step]\nthresholds = [{ after = \"-1s\", factor = 2 }]\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidationFailed)
			},
		},
		{
			name:    "bad level",
			content: "[log]\nlevel = \"chatty\"\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidationFailed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), tt.content))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Navigation.Wraparound = true
	cfg.Input.Keys = map[string]string{"ok": "<CR>"}
	cfg.Plugins.Scripts = []string{"p.lua"}

	data, err := Encode(cfg)
	require.NoError(t, err)

	var back Config
	require.NoError(t, Decode("encoded", data, &back))
	assert.Equal(t, cfg, back)
}

func TestSplitSpecs(t *testing.T) {
	assert.Equal(t, []string{"<CR>", "<Space>"}, splitSpecs("<CR>, <Space>"))
	assert.Equal(t, []string{"<C-,>", "x"}, splitSpecs("<C-,>,x"))
	assert.Empty(t, splitSpecs(" , "))
}

func TestLive(t *testing.T) {
	live := NewLive(Default())
	assert.False(t, live.Wraparound())

	cfg := Default()
	cfg.Navigation.Wraparound = true
	live.Set(cfg)
	assert.True(t, live.Wraparound())
	assert.True(t, live.Get().Navigation.Wraparound)

	var _ setting.Preferences = live
}

func TestLive_Watch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "[navigation]\nwraparound = false\n")

	live := NewLive(Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 4)
	require.NoError(t, live.Watch(ctx, path, func(c Config) {
		select {
		case reloaded <- c:
		default:
		}
	}))

	replaceFile(t, path, "[navigation]\nwraparound = true\n")

	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case c := <-reloaded:
			done = c.Navigation.Wraparound
		case <-deadline:
			t.Fatal("no reload")
		}
	}
	assert.True(t, live.Wraparound())
	assert.GreaterOrEqual(t, live.Reloads(), uint64(1))
}

func TestLive_WatchKeepsOldOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "[navigation]\nwraparound = true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	live := NewLive(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, live.Watch(ctx, path, nil))

	replaceFile(t, path, "[navigation\n")
	time.Sleep(200 * time.Millisecond)
	assert.True(t, live.Wraparound())
	assert.Zero(t, live.Reloads())
}

func TestLive_WatchMissingDir(t *testing.T) {
	live := NewLive(Default())
	err := live.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "menuconf.toml"), nil)
	assert.ErrorIs(t, err, ErrWatch)
}
