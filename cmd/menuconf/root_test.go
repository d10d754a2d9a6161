package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dshills/menuconf/internal/app"
	"github.com/dshills/menuconf/internal/registry"
)

// execute runs the CLI against a private values file.
func execute(t *testing.T, values string, args ...string) (string, error) {
	t.Helper()
	root := newCLI().rootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--values", values}, args...))
	err := root.Execute()
	return out.String(), err
}

func valuesFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "values.toml")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, valuesFile(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "menuconf dev\n", out)

	out, err = execute(t, valuesFile(t), "version", "--detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "commit unknown")
}

func TestGetSetReset(t *testing.T) {
	values := valuesFile(t)

	out, err := execute(t, values, "get", "video_scale", "video_vsync")
	require.NoError(t, err)
	assert.Equal(t, "video_scale = 3x\nvideo_vsync = ON\n", out)

	out, err = execute(t, values, "set", "audio_volume", "6")
	require.NoError(t, err)
	assert.Equal(t, "audio_volume = 6.0 dB\n", out)

	out, err = execute(t, values, "get", "--raw", "audio_volume")
	require.NoError(t, err)
	assert.Equal(t, "audio_volume = 6\n", out)

	out, err = execute(t, values, "--lang", "de-DE", "get", "video_vsync")
	require.NoError(t, err)
	assert.Equal(t, "video_vsync = AN\n", out)

	out, err = execute(t, values, "reset", "audio_volume")
	require.NoError(t, err)
	assert.Equal(t, "audio_volume = 0.0 dB\n", out)
}

func TestSet_Errors(t *testing.T) {
	values := valuesFile(t)

	_, err := execute(t, values, "set", "no_such_setting", "1")
	assert.ErrorIs(t, err, app.ErrUnknownSetting)

	_, err = execute(t, values, "set", "video_vsync", "maybe")
	var oerr *app.OperationError
	assert.ErrorAs(t, err, &oerr)

	_, err = execute(t, values, "set", "video_vsync")
	assert.Error(t, err, "two arguments are required")
}

func TestDump(t *testing.T) {
	values := valuesFile(t)
	_, err := execute(t, values, "set", "video_title", "Arcade")
	require.NoError(t, err)

	out, err := execute(t, values, "dump", "--format", "yaml", "--group", "video")
	require.NoError(t, err)
	var views []registry.View
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))
	require.NotEmpty(t, views)
	for _, v := range views {
		assert.Equal(t, "video", v.Group)
	}

	out, err = execute(t, values, "dump", "--modified")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "video_title")
	assert.Contains(t, out, "Arcade *")
	assert.NotContains(t, out, "video_scale")

	out, err = execute(t, values, "dump", "-f", "toml", "-m")
	require.NoError(t, err)
	assert.Contains(t, out, "[video]")
	assert.Contains(t, out, "video_title = ")
	assert.NotContains(t, out, "[audio]")

	_, err = execute(t, values, "dump", "-f", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestFind(t *testing.T) {
	values := valuesFile(t)

	out, err := execute(t, values, "find", "fullscreen")
	require.NoError(t, err)
	assert.Contains(t, out, "video_fullscreen")
	assert.Contains(t, out, "Start in Fullscreen Mode")

	out, err = execute(t, values, "find", "-n", "1", "video")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)

	_, err = execute(t, values, "find", "zzzz")
	assert.ErrorIs(t, err, app.ErrUnknownSetting)
}

func TestRun_NeedsTerminal(t *testing.T) {
	_, err := execute(t, valuesFile(t), "run")
	assert.ErrorIs(t, err, errNoTerminal)
}
