package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/menuconf/internal/config"
	"github.com/dshills/menuconf/internal/notify"
	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/store"
	"github.com/dshills/menuconf/internal/ui"
)

// Run shows the menu on an initialized screen until the user leaves it,
// a quit command fires, or ctx is done. Pending triggers are flushed
// afterwards and the values are saved when config_save_on_exit is set.
func (app *Application) Run(ctx context.Context, screen tcell.Screen) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	app.mu.Lock()
	app.cancel = cancel
	app.mu.Unlock()
	defer func() {
		app.mu.Lock()
		app.cancel = nil
		app.mu.Unlock()
	}()

	cfg := app.Config()
	if app.opts.Watch && app.opts.ConfigPath != "" {
		if err := app.live.Watch(runCtx, app.opts.ConfigPath, app.reloaded); err != nil {
			app.log.Warn("config watch disabled", "err", err)
		}
	}

	menu, err := app.newMenu(screen, cfg)
	if err != nil {
		return err
	}
	menu.SetRegistry(app.reg)
	app.log.Info("menu open", "entries", app.reg.Len())

	err = menu.Run(runCtx)
	if errors.Is(context.Cause(runCtx), errQuit) {
		err = nil
	}
	app.log.Info("menu closed", "err", err)

	return errors.Join(err, app.finish(context.WithoutCancel(ctx)))
}

func (app *Application) newMenu(screen tcell.Screen, cfg config.Config) (*ui.Menu, error) {
	over, err := cfg.Keymap()
	if err != nil {
		return nil, &InitError{Component: "keymap", Err: err}
	}
	return ui.New(screen, app.env, ui.Options{
		Title:          "menuconf",
		Keymap:         ui.DefaultKeymap().Merge(over),
		RepeatGap:      cfg.Input.RepeatGap.Std(),
		CaptureTimeout: cfg.Input.CaptureTimeout.Std(),
		ShowAdvanced:   cfg.UI.ShowAdvanced,
	}), nil
}

// reloaded runs on the watcher goroutine after the preferences file
// changed.
func (app *Application) reloaded(cfg config.Config) {
	if s, err := cfg.Scaler(); err == nil {
		app.steps.cur.Store(s)
	}
	app.changes.Notify(notify.Change{Kind: notify.KindReload, Source: "config"})
	app.log.Info("config reloaded", "wraparound", cfg.Navigation.Wraparound)
}

// finish fires the triggers still pending and saves on exit.
func (app *Application) finish(ctx context.Context) error {
	var errs []error
	if err := app.reg.FlushTriggers(ctx, nil); err != nil {
		errs = append(errs, fmt.Errorf("flush triggers: %w", err))
	}
	if app.values.General.SaveOnExit && app.valuesPath != "" {
		errs = append(errs, app.Save())
	}
	return errors.Join(errs...)
}

// Save writes the modified values to the values file.
func (app *Application) Save() error {
	if app.valuesPath == "" {
		return ErrNoValuesFile
	}
	if err := store.Save(app.valuesPath, app.reg, true); err != nil {
		return &OperationError{Op: "save", Target: app.valuesPath, Err: err}
	}
	app.log.Info("values saved", "path", app.valuesPath)
	return nil
}

// Find returns the setting called name.
func (app *Application) Find(name string) (*setting.Setting, error) {
	s := app.reg.Find(name)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	return s, nil
}

// View returns the display form of the setting called name.
func (app *Application) View(name string) (registry.View, error) {
	if _, err := app.Find(name); err != nil {
		return registry.View{}, err
	}
	for _, v := range app.reg.Describe(nil) {
		if v.Name == name {
			return v, nil
		}
	}
	return registry.View{}, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
}

// Set parses text into the setting called name.
func (app *Application) Set(name, text string) error {
	s, err := app.Find(name)
	if err != nil {
		return err
	}
	if err := setting.SetFromText(app.env, s, text); err != nil {
		return &OperationError{Op: "set", Target: name, Err: err}
	}
	return nil
}

// Reset restores the setting called name to its default.
func (app *Application) Reset(name string) error {
	s, err := app.Find(name)
	if err != nil {
		return err
	}
	if err := setting.ResetToDefault(app.env, s); err != nil {
		return &OperationError{Op: "reset", Target: name, Err: err}
	}
	return nil
}
