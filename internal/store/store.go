// Package store saves and restores setting values as TOML.
//
// Each value is written as its canonical text under a table named after
// its group; entries outside any group are written at the top level:
//
//	menu_wraparound = "true"
//
//	[video]
//	video_scale = "3"
//	video_message_color = "00ffcc00"
//
// Loading applies each value through the setting's text parser, so range
// enforcement and change handlers behave as if the value had been typed.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
)

// ErrInvalidFile indicates a values file that is not a table of strings.
var ErrInvalidFile = errors.New("invalid values file")

// Report summarizes a Load.
type Report struct {
	Applied int
	// Unknown lists names with no matching setting.
	Unknown []string
	// Failed holds one error per value that did not parse.
	Failed []error
}

// Err joins the failures, or returns nil.
func (r Report) Err() error {
	return errors.Join(r.Failed...)
}

// persistent reports whether s carries a value worth saving.
func persistent(s *setting.Setting) bool {
	return !s.Kind.IsStructural() && s.Kind != setting.ActionEntry && s.Value != nil
}

// Snapshot returns group -> name -> canonical text. With modifiedOnly,
// values equal to their default are left out.
func Snapshot(reg *registry.Registry, modifiedOnly bool) map[string]map[string]string {
	out := make(map[string]map[string]string)
	for s := range reg.Entries() {
		if !persistent(s) || modifiedOnly && !setting.Modified(s) {
			continue
		}
		g := out[s.Group]
		if g == nil {
			g = make(map[string]string)
			out[s.Group] = g
		}
		g[s.Name] = setting.Raw(s)
	}
	return out
}

// Marshal renders a snapshot as TOML.
func Marshal(snap map[string]map[string]string) ([]byte, error) {
	doc := make(map[string]any, len(snap))
	for group, values := range snap {
		if group == "" {
			for name, v := range values {
				doc[name] = v
			}
			continue
		}
		doc[group] = values
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode values: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the registry's values to path, replacing it atomically.
func Save(path string, reg *registry.Registry, modifiedOnly bool) error {
	data, err := Marshal(Snapshot(reg, modifiedOnly))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create values dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".values-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write values: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace values file: %w", err)
	}
	return nil
}

// Load reads path and applies every value to reg. A missing file applies
// nothing. Values that fail to parse are reported and leave the setting
// unchanged.
func Load(path string, env *setting.Env, reg *registry.Registry) (Report, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Report{}, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("read values: %w", err)
	}
	return Apply(data, env, reg)
}

// Apply parses TOML data and applies it to reg.
func Apply(data []byte, env *setting.Env, reg *registry.Registry) (Report, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	values := make(map[string]string)
	for k, v := range doc {
		switch v := v.(type) {
		case string:
			values[k] = v
		case map[string]any:
			for name, raw := range v {
				text, ok := raw.(string)
				if !ok {
					return Report{}, fmt.Errorf("%w: %s.%s is %T", ErrInvalidFile, k, name, raw)
				}
				values[name] = text
			}
		default:
			return Report{}, fmt.Errorf("%w: %s is %T", ErrInvalidFile, k, v)
		}
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var rep Report
	for _, name := range names {
		s := reg.Find(name)
		if s == nil || !persistent(s) {
			rep.Unknown = append(rep.Unknown, name)
			continue
		}
		if err := setting.SetFromText(env, s, values[name]); err != nil {
			rep.Failed = append(rep.Failed, err)
			continue
		}
		rep.Applied++
	}
	return rep, nil
}
