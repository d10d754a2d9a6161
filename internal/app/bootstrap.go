package app

import (
	"context"
	"fmt"

	"github.com/dshills/menuconf/internal/catalog"
	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/config"
	"github.com/dshills/menuconf/internal/label"
	"github.com/dshills/menuconf/internal/logger"
	"github.com/dshills/menuconf/internal/notify"
	luaplugin "github.com/dshills/menuconf/internal/plugin/lua"
	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/setting/pathexp"
	"github.com/dshills/menuconf/internal/store"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app, opts: app.opts}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initLabels,
		b.initEnv,
		b.initCommands,
		b.initPlugins,
		b.initRegistry,
		b.initValues,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.cfg = cfg
	b.app.live = config.NewLive(cfg)
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogger() error {
	cfg := b.app.cfg
	level, file := cfg.Log.Level, cfg.Log.File
	if b.opts.LogLevel != "" {
		level = b.opts.LogLevel
	}
	if b.opts.LogFile != "" {
		file = b.opts.LogFile
	}
	closer, err := logger.Configure(logger.Options{Level: level, File: file, Output: b.opts.LogOutput})
	if err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	b.app.closeLog = closer
	b.app.log = logger.Component("app")
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

func (b *bootstrapper) initLabels() error {
	bundle, err := label.LoadEmbedded()
	if err != nil {
		return &InitError{Component: "labels", Err: err}
	}
	lang := b.app.cfg.UI.Language
	if b.opts.Language != "" {
		lang = b.opts.Language
	}
	loc, err := bundle.Localizer(lang)
	if err != nil {
		return &InitError{Component: "labels", Err: err}
	}
	b.app.labels = loc
	b.app.log.Debug("labels", "language", loc.Language(), "missing", len(bundle.Missing(loc.Language().String())))
	return nil
}

func (b *bootstrapper) initEnv() error {
	cfg := b.app.cfg
	scaler, err := cfg.Scaler()
	if err != nil {
		return &InitError{Component: "step scaler", Err: err}
	}
	b.app.steps = &liveScaler{}
	b.app.steps.cur.Store(scaler)

	b.app.bus = command.NewBus()
	b.app.changes = notify.New()
	b.initOrder = append(b.initOrder, "changes")

	changeLog := logger.Component("change")
	b.app.changes.Subscribe(func(c notify.Change) {
		changeLog.Debug(c.Kind.String(), "path", c.Path, "old", c.Old, "new", c.New, "source", c.Source)
	})

	b.app.env = &setting.Env{
		Prefs:    b.app.live,
		Labels:   b.app.labels,
		Commands: b.app.bus,
		Paths:    pathexp.New(cfg.Paths.Home, cfg.Paths.AppDir),
		Steps:    b.app.steps,
		Changes:  b.app.changes,
		Logger:   logger.Component("setting"),
	}
	return nil
}

func (b *bootstrapper) initCommands() error {
	if err := b.app.subscribe(); err != nil {
		return &InitError{Component: "commands", Err: err}
	}
	return nil
}

func (b *bootstrapper) initPlugins() error {
	scripts := b.app.cfg.Plugins.Scripts
	if len(scripts) == 0 {
		return nil
	}
	paths := make([]string, len(scripts))
	for i, s := range scripts {
		paths[i] = b.app.env.Expand(s)
	}
	plugins, err := luaplugin.LoadAll(context.Background(), paths, luaplugin.Options{})
	if err != nil {
		return &InitError{Component: "plugins", Err: err}
	}
	b.app.plugins = plugins
	b.initOrder = append(b.initOrder, "plugins")
	for _, p := range plugins {
		b.app.log.Info("plugin loaded", "plugin", p.Name(), "settings", p.Declared())
	}
	return nil
}

func (b *bootstrapper) initRegistry() error {
	b.app.values = catalog.Defaults()
	sections := catalog.Sections(b.app.values)
	for _, p := range b.app.plugins {
		sections = append(sections, p.Section())
	}
	reg, err := registry.Build(b.app.env, sections...)
	if err != nil {
		// A failed build releases only the sections it reached.
		for _, p := range b.app.plugins {
			if !p.Closed() {
				p.Close()
			}
		}
		b.app.plugins = nil
		return &InitError{Component: "registry", Err: err}
	}
	b.app.reg = reg
	b.initOrder = append(b.initOrder, "registry")
	b.app.log.Debug("registry built", "entries", reg.Len(), "groups", len(reg.Groups()))
	return nil
}

func (b *bootstrapper) initValues() error {
	path := b.app.cfg.Paths.Values
	if b.opts.ValuesPath != "" {
		path = b.opts.ValuesPath
	}
	if path == "" {
		path = DefaultValuesPath()
	}
	b.app.valuesPath = b.app.env.Expand(path)
	if b.app.valuesPath == "" {
		b.app.log.Warn("no values file, changes will not be saved")
		return nil
	}

	report, err := store.Load(b.app.valuesPath, b.app.env, b.app.reg)
	if err != nil {
		return &InitError{Component: "values", Err: fmt.Errorf("%s: %w", b.app.valuesPath, err)}
	}
	b.app.loaded = report
	for _, name := range report.Unknown {
		b.app.log.Warn("unknown setting in values file", "name", name)
	}
	for _, err := range report.Failed {
		b.app.log.Warn("value not applied", "err", err)
	}
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "registry":
		b.app.reg.Close()
		b.app.reg = nil
		b.app.plugins = nil
	case "plugins":
		for _, p := range b.app.plugins {
			p.Close()
		}
		b.app.plugins = nil
	case "changes":
		b.app.changes.Close()
	case "logger":
		if b.app.closeLog != nil {
			_ = b.app.closeLog()
			b.app.closeLog = nil
		}
	}
}
