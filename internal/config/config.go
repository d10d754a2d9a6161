package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/menuconf/internal/input/key"
	"github.com/dshills/menuconf/internal/logger"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/setting/stepscale"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MENUCONF_"

// Config is the full set of preferences.
type Config struct {
	Navigation Navigation `toml:"navigation"`
	Step       Step       `toml:"step"`
	Paths      Paths      `toml:"paths"`
	Input      Input      `toml:"input"`
	Log        Log        `toml:"log"`
	UI         UI         `toml:"ui"`
	Plugins    Plugins    `toml:"plugins"`
}

// Navigation holds menu navigation preferences.
type Navigation struct {
	// Wraparound wraps numeric values past their bounds instead of
	// clamping them.
	Wraparound bool `toml:"wraparound" env:"WRAPAROUND"`
}

// Step configures hold acceleration.
type Step struct {
	Thresholds []Threshold `toml:"thresholds"`
}

// Threshold is one stair of the acceleration table.
type Threshold struct {
	After  Duration `toml:"after"`
	Factor float64  `toml:"factor"`
}

// Paths configures path expansion and value storage.
type Paths struct {
	// Home replaces "~". Empty uses the user's home directory.
	Home string `toml:"home" env:"HOME_DIR"`
	// AppDir replaces ":". Empty uses the executable's directory.
	AppDir string `toml:"app_dir" env:"APP_DIR"`
	// Values is the file setting values are saved to.
	Values string `toml:"values" env:"VALUES"`
}

// Input configures the terminal front-end.
type Input struct {
	// RepeatGap is the longest pause between repeated key events that
	// still counts as holding the key.
	RepeatGap Duration `toml:"repeat_gap" env:"REPEAT_GAP"`
	// CaptureTimeout ends a bind capture with no key pressed. Zero waits
	// forever.
	CaptureTimeout Duration `toml:"capture_timeout" env:"CAPTURE_TIMEOUT"`
	// Keys maps action names to comma-separated key specs.
	Keys map[string]string `toml:"keys"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
	File  string `toml:"file" env:"LOG_FILE"`
}

// UI configures display.
type UI struct {
	Language     string `toml:"language" env:"LANGUAGE"`
	ShowAdvanced bool   `toml:"show_advanced" env:"SHOW_ADVANCED"`
}

// Plugins lists Lua scripts declaring extra settings.
type Plugins struct {
	Scripts []string `toml:"scripts" env:"PLUGINS" envSeparator:","`
}

// Duration is a time.Duration written as "250ms" or "3s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in preferences.
func Default() Config {
	th := make([]Threshold, len(stepscale.DefaultThresholds))
	for i, t := range stepscale.DefaultThresholds {
		th[i] = Threshold{After: Duration(t.After), Factor: t.Factor}
	}
	return Config{
		Step:  Step{Thresholds: th},
		Input: Input{RepeatGap: Duration(150 * time.Millisecond)},
		Log:   Log{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Component("config").Debug("no config file", "path", path)
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := Decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML data into cfg. Unknown keys are rejected.
func Decode(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			perr.Message = "unknown keys:\n" + serr.String()
		}
		return perr
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// ApplyEnv overrides cfg from MENUCONF_* variables.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the values that cannot be checked while decoding.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Scaler(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Keymap(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Input.RepeatGap < 0 || c.Input.CaptureTimeout < 0 {
		errs = append(errs, errors.New("input durations must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return nil
}

// Scaler builds the step scaler from the threshold table. An empty table
// disables acceleration.
func (c Config) Scaler() (*stepscale.Scaler, error) {
	th := make([]stepscale.Threshold, len(c.Step.Thresholds))
	for i, t := range c.Step.Thresholds {
		th[i] = stepscale.Threshold{After: t.After.Std(), Factor: t.Factor}
	}
	return stepscale.New(th)
}

// Keymap parses [input.keys]. Each value is a comma-separated list of key
// specs; the result lists the keys of each configured action.
func (c Config) Keymap() (map[setting.Action][]key.Event, error) {
	out := make(map[setting.Action][]key.Event, len(c.Input.Keys))

	names := make([]string, 0, len(c.Input.Keys))
	for name := range c.Input.Keys {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		act, ok := setting.ParseAction(name)
		if !ok || act == setting.ActionNone {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
		}
		for _, spec := range splitSpecs(c.Input.Keys[name]) {
			ev, err := key.Parse(spec)
			if err != nil {
				return nil, fmt.Errorf("input.keys.%s: %w", name, err)
			}
			out[act] = append(out[act], ev)
		}
	}
	return out, nil
}

// splitSpecs splits on commas outside "<...>", so "<lt>, <C-,>" stays two
// specs.
func splitSpecs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case r == ',' && depth == 0:
			if part := strings.TrimSpace(s[start:i]); part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}
