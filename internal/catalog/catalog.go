// Package catalog declares the built-in settings and the commands they
// trigger.
//
// Values holds the storage; Sections declares one registry section per
// group over a Values. Every label id used here has a message in the
// embedded locales of package label.
package catalog

import (
	"fmt"

	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/setting/bounds"
)

// Commands fired by the built-in settings.
const (
	CmdLogVerbosity command.ID = "log.verbosity"
	CmdRewind       command.ID = "rewind.toggle"
	CmdVideoReinit  command.ID = "video.reinit"
	CmdAudioReinit  command.ID = "audio.reinit"
	CmdSaveConfig   command.ID = "config.save"
	CmdQuit         command.ID = "quit"
)

// Ports is the number of input ports with bind settings.
const Ports = 2

// General holds general options.
type General struct {
	LogVerbosity      bool
	LogLevel          uint
	PerfCounters      bool
	SaveOnExit        bool
	FPSShow           bool
	Rewind            bool
	RewindGranularity uint
	AutosaveInterval  uint
}

// Video holds video options.
type Video struct {
	Driver      string
	Fullscreen  bool
	Monitor     uint
	Scale       float64
	RefreshRate float64
	VSync       bool
	HardSync    bool
	HardFrames  uint
	Rotation    uint
	Aspect      uint
	ClearColor  uint
	Title       string
}

// Audio holds audio options.
type Audio struct {
	Enable     bool
	Driver     string
	Resampler  string
	Volume     float64
	Latency    int
	OutRate    uint
	BufferSize uint64
}

// Input holds input options.
type Input struct {
	Players uint
	Binds   [Ports][]key.Binding
}

// Paths holds directories and files.
type Paths struct {
	Config     string
	Shader     string
	System     string
	Savefile   string
	Screenshot string
}

// Values is the storage behind the built-in settings.
type Values struct {
	General General
	Video   Video
	Audio   Audio
	Input   Input
	Paths   Paths
}

// Defaults returns Values holding every default.
func Defaults() *Values {
	v := &Values{
		General: General{
			LogLevel:          1,
			SaveOnExit:        true,
			RewindGranularity: 1,
		},
		Video: Video{
			Driver:      "gl",
			Scale:       3,
			RefreshRate: 59.94,
			VSync:       true,
			Aspect:      aspectCore,
			Title:       "menuconf",
		},
		Audio: Audio{
			Enable:     true,
			Driver:     "pulse",
			Resampler:  "sinc",
			Latency:    64,
			OutRate:    48000,
			BufferSize: 8192,
		},
		Input: Input{Players: 1},
		Paths: Paths{Config: "~/.config/menuconf/menuconf.toml"},
	}
	for port := range v.Input.Binds {
		ids := key.IDs()
		v.Input.Binds[port] = make([]key.Binding, len(ids))
		for i, id := range ids {
			v.Input.Binds[port][i], _ = key.DefaultFor(port, id)
		}
	}
	return v
}

// Sections returns the sections declaring every group over v.
func Sections(v *Values) []registry.Section {
	return []registry.Section{v.general, v.video, v.audio, v.input, v.paths}
}

const (
	aspect4x3 uint = iota
	aspect16x9
	aspect16x10
	aspectCore
)

func (v *Values) general(b *registry.Builder) error {
	g := &v.General
	_ = b.StartGroup("general", "")
	_, _ = b.Bool(registry.BoolDecl{
		Decl:   registry.Decl{Name: "log_verbosity", Command: CmdLogVerbosity, Flags: setting.FlagApplyAuto},
		Target: &g.LogVerbosity,
	})
	_, _ = b.Uint(registry.UintDecl{
		Decl:    registry.Decl{Name: "libretro_log_level"},
		Target:  &g.LogLevel,
		Default: 1,
		Options: []string{"log_debug", "log_info", "log_warn", "log_error"},
	})
	_, _ = b.Bool(registry.BoolDecl{
		Decl:   registry.Decl{Name: "perfcnt_enable", Flags: setting.FlagAdvanced},
		Target: &g.PerfCounters,
	})
	_, _ = b.Bool(registry.BoolDecl{Decl: registry.Decl{Name: "config_save_on_exit"}, Target: &g.SaveOnExit, Default: true})
	_, _ = b.Bool(registry.BoolDecl{Decl: registry.Decl{Name: "fps_show"}, Target: &g.FPSShow})

	_ = b.StartSubgroup("rewind", "general")
	_, _ = b.Bool(registry.BoolDecl{
		Decl:   registry.Decl{Name: "rewind_enable", Command: CmdRewind, Flags: setting.FlagApplyAuto},
		Target: &g.Rewind,
	})
	_, _ = b.Uint(registry.UintDecl{
		Decl:    registry.Decl{Name: "rewind_granularity", Flags: setting.FlagAllowInput},
		Target:  &g.RewindGranularity,
		Default: 1,
		Range:   bounds.Range{Min: 1, Max: 32768, EnforceMin: true, EnforceMax: true},
	})
	_ = b.EndSubgroup("general")

	_, _ = b.Uint(registry.UintDecl{
		Decl:   registry.Decl{Name: "autosave_interval", Stringify: seconds("autosave_off")},
		Target: &g.AutosaveInterval,
		Range:  bounds.Range{Max: 3600, Step: 10, EnforceMax: true},
	})
	_, _ = b.Action(registry.ActionDecl{Decl: registry.Decl{Name: "config_save", Command: CmdSaveConfig}})
	_, _ = b.Action(registry.ActionDecl{Decl: registry.Decl{Name: "quit", Command: CmdQuit, Flags: setting.FlagExitOnApply}})
	_ = b.EndGroup("")
	return b.Err()
}

func (v *Values) video(b *registry.Builder) error {
	vd := &v.Video
	_ = b.StartGroup("video", "")

	_ = b.StartSubgroup("video_output", "video")
	_, _ = b.StringOptions(registry.OptionsDecl{
		Decl:    registry.Decl{Name: "video_driver", Command: CmdVideoReinit},
		Target:  &vd.Driver,
		Default: "gl",
		Options: []string{"gl", "vulkan", "sdl2"},
	})
	_, _ = b.Bool(registry.BoolDecl{
		Decl:   registry.Decl{Name: "video_fullscreen", Command: CmdVideoReinit, Flags: setting.FlagDeferred},
		Target: &vd.Fullscreen,
	})
	_, _ = b.Uint(registry.UintDecl{
		Decl:   registry.Decl{Name: "video_monitor_index", Stringify: zeroAs("video_monitor_auto")},
		Target: &vd.Monitor,
		Range:  bounds.Range{Max: 8, EnforceMax: true},
	})
	_, _ = b.Float(registry.FloatDecl{
		Decl:    registry.Decl{Name: "video_refresh_rate", Flags: setting.FlagAllowInput},
		Target:  &vd.RefreshRate,
		Default: 59.94,
		Range:   bounds.Range{Min: 1, Max: 240, Step: 0.01, EnforceMin: true, EnforceMax: true},
		Format:  "%.2f Hz",
	})
	_ = b.EndSubgroup("video")

	_ = b.StartSubgroup("video_sync", "video")
	_, _ = b.Bool(registry.BoolDecl{Decl: registry.Decl{Name: "video_vsync"}, Target: &vd.VSync, Default: true})
	_, _ = b.Bool(registry.BoolDecl{
		Decl:   registry.Decl{Name: "video_hard_sync", Flags: setting.FlagAdvanced},
		Target: &vd.HardSync,
	})
	_, _ = b.Uint(registry.UintDecl{
		Decl:   registry.Decl{Name: "video_hard_sync_frames", Flags: setting.FlagAdvanced | setting.FlagUnscaled},
		Target: &vd.HardFrames,
		Range:  bounds.Range{Max: 3, EnforceMax: true},
	})
	_ = b.EndSubgroup("video")

	_ = b.StartSubgroup("video_scaling", "video")
	_, _ = b.Float(registry.FloatDecl{
		Decl:    registry.Decl{Name: "video_scale"},
		Target:  &vd.Scale,
		Default: 3,
		Range:   bounds.Range{Min: 1, Max: 10, Step: 1, EnforceMin: true, EnforceMax: true},
		Format:  "%.0fx",
	})
	_, _ = b.Uint(registry.UintDecl{
		Decl:    registry.Decl{Name: "video_rotation"},
		Target:  &vd.Rotation,
		Options: []string{"rotation_0", "rotation_90", "rotation_180", "rotation_270"},
	})
	_, _ = b.Uint(registry.UintDecl{
		Decl:    registry.Decl{Name: "aspect_ratio_index"},
		Target:  &vd.Aspect,
		Default: aspectCore,
		Options: []string{"aspect_4_3", "aspect_16_9", "aspect_16_10", "aspect_core"},
		Enum:    []uint{aspect4x3, aspect16x9, aspect16x10, aspectCore},
	})
	_ = b.EndSubgroup("video")

	_, _ = b.Hex(registry.HexDecl{Decl: registry.Decl{Name: "video_clear_color", Flags: setting.FlagAllowInput}, Target: &vd.ClearColor})
	_, _ = b.String(registry.StringDecl{
		Decl:    registry.Decl{Name: "video_title", Flags: setting.FlagAllowInput},
		Target:  &vd.Title,
		Default: "menuconf",
		Cap:     32,
	})
	_, _ = b.Action(registry.ActionDecl{Decl: registry.Decl{Name: "video_apply", Command: CmdVideoReinit}})
	_ = b.EndGroup("")
	return b.Err()
}

func (v *Values) audio(b *registry.Builder) error {
	a := &v.Audio
	_ = b.StartGroup("audio", "")
	_, _ = b.Bool(registry.BoolDecl{
		Decl:    registry.Decl{Name: "audio_enable", Command: CmdAudioReinit, Flags: setting.FlagApplyAuto},
		Target:  &a.Enable,
		Default: true,
	})
	_, _ = b.StringOptions(registry.OptionsDecl{
		Decl:    registry.Decl{Name: "audio_driver", Command: CmdAudioReinit, Flags: setting.FlagApplyAuto},
		Target:  &a.Driver,
		Default: "pulse",
		Options: []string{"alsa", "pulse", "sdl2", "null"},
	})
	_, _ = b.StringOptions(registry.OptionsDecl{
		Decl:    registry.Decl{Name: "audio_resampler", Flags: setting.FlagAdvanced},
		Target:  &a.Resampler,
		Default: "sinc",
		Options: []string{"sinc", "cc", "nearest"},
	})
	_, _ = b.Float(registry.FloatDecl{
		Decl:   registry.Decl{Name: "audio_volume"},
		Target: &a.Volume,
		Range:  bounds.Range{Min: -80, Max: 12, Step: 0.5, EnforceMin: true, EnforceMax: true},
		Format: "%.1f dB",
	})
	_, _ = b.Int(registry.IntDecl{
		Decl:    registry.Decl{Name: "audio_latency"},
		Target:  &a.Latency,
		Default: 64,
		Range:   bounds.Range{Min: 8, Max: 512, Step: 8, EnforceMin: true, EnforceMax: true},
	})
	_, _ = b.Uint(registry.UintDecl{
		Decl:    registry.Decl{Name: "audio_out_rate", Flags: setting.FlagAllowInput},
		Target:  &a.OutRate,
		Default: 48000,
		Range:   bounds.Range{Min: 22050, Max: 192000, EnforceMin: true, EnforceMax: true},
	})
	_, _ = b.Size(registry.SizeDecl{
		Decl:    registry.Decl{Name: "audio_buffer_size", Flags: setting.FlagAdvanced},
		Target:  &a.BufferSize,
		Default: 8192,
		Range:   bounds.Range{Min: 1024, Max: 1 << 20, Step: 1024, EnforceMin: true, EnforceMax: true},
	})
	_ = b.EndGroup("")
	return b.Err()
}

func (v *Values) input(b *registry.Builder) error {
	in := &v.Input
	_ = b.StartGroup("input", "")
	_, _ = b.Uint(registry.UintDecl{
		Decl:    registry.Decl{Name: "input_players"},
		Target:  &in.Players,
		Default: 1,
		Range:   bounds.Range{Min: 1, Max: Ports, EnforceMin: true, EnforceMax: true},
	})
	_ = b.Template(Ports, func(b *registry.Builder, port int) error {
		_ = b.StartSubgroup(fmt.Sprintf("input_player%d", port+1), "input")
		for i, id := range key.IDs() {
			_, _ = b.Bind(registry.BindDecl{
				Decl:   registry.Decl{Name: fmt.Sprintf("input_player%d_%s", port+1, id), Label: "input_" + id.String()},
				Target: &in.Binds[port][i],
				ID:     id,
			})
		}
		return b.EndSubgroup("input")
	})
	_ = b.EndGroup("")
	return b.Err()
}

func (v *Values) paths(b *registry.Builder) error {
	p := &v.Paths
	_ = b.StartGroup("paths", "")
	_, _ = b.Path(registry.PathDecl{
		Decl:    registry.Decl{Name: "config_path"},
		Target:  &p.Config,
		Default: "~/.config/menuconf/menuconf.toml",
		Cap:     4096,
	})
	_, _ = b.Path(registry.PathDecl{
		Decl:   registry.Decl{Name: "video_shader", Flags: setting.FlagAllowEmpty | setting.FlagBrowserAction},
		Target: &p.Shader,
		Cap:    4096,
	})
	for _, d := range []struct {
		name   string
		target *string
	}{
		{"system_directory", &p.System},
		{"savefile_directory", &p.Savefile},
		{"screenshot_directory", &p.Screenshot},
	} {
		_, _ = b.Dir(registry.PathDecl{
			Decl:       registry.Decl{Name: d.name, Flags: setting.FlagAllowEmpty},
			Target:     d.target,
			Cap:        4096,
			EmptyLabel: "dir_content",
		})
	}
	_ = b.EndGroup("")
	return b.Err()
}

// seconds renders an interval in seconds, or the off label for zero.
func seconds(offLabel string) setting.Formatter {
	return func(env *setting.Env, s *setting.Setting) string {
		v, ok := setting.ScalarOf[uint](s)
		if !ok {
			return ""
		}
		if *v.Target == 0 {
			return env.Text(offLabel)
		}
		return fmt.Sprintf("%d s", *v.Target)
	}
}

// zeroAs renders zero with a label and any other value as a number.
func zeroAs(label string) setting.Formatter {
	return func(env *setting.Env, s *setting.Setting) string {
		v, ok := setting.ScalarOf[uint](s)
		if !ok {
			return ""
		}
		if *v.Target == 0 {
			return env.Text(label)
		}
		return fmt.Sprint(*v.Target)
	}
}
