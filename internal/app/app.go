// Package app wires the registry, its environment and the terminal menu
// into one application and manages its lifecycle.
package app

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/menuconf/internal/catalog"
	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/config"
	"github.com/dshills/menuconf/internal/label"
	"github.com/dshills/menuconf/internal/notify"
	luaplugin "github.com/dshills/menuconf/internal/plugin/lua"
	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/setting/stepscale"
	"github.com/dshills/menuconf/internal/store"
)

// Options configures the application. Empty fields fall back to the
// configuration file.
type Options struct {
	// ConfigPath is the preferences file. Empty uses built-in defaults.
	ConfigPath string

	LogLevel string
	LogFile  string
	// LogOutput receives log lines when no log file is set. Nil is stderr.
	LogOutput io.Writer

	// Language selects the label locale.
	Language string

	// ValuesPath is the file setting values are loaded from and saved to.
	ValuesPath string

	// Watch reloads the preferences file while the menu is open.
	Watch bool
}

// Application is the running set of settings and their collaborators.
type Application struct {
	mu sync.Mutex

	opts Options
	cfg  config.Config
	live *config.Live

	labels  *label.Localizer
	bus     *command.Bus
	changes *notify.Notifier
	steps   *liveScaler
	env     *setting.Env

	values  *catalog.Values
	plugins []*luaplugin.Plugin
	reg     *registry.Registry
	loaded  store.Report

	valuesPath string
	closeLog   func() error
	log        *log.Logger

	running  atomic.Bool
	cancel   func(error)
	shutdown sync.Once
}

// New creates an application with every component initialized.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the preferences in effect.
func (app *Application) Config() config.Config {
	return app.live.Get()
}

// Env returns the environment shared by every setting.
func (app *Application) Env() *setting.Env {
	return app.env
}

// Registry returns the built registry.
func (app *Application) Registry() *registry.Registry {
	return app.reg
}

// Values returns the storage of the built-in settings.
func (app *Application) Values() *catalog.Values {
	return app.values
}

// Bus returns the command bus settings fire into.
func (app *Application) Bus() *command.Bus {
	return app.bus
}

// Changes returns the change notifier.
func (app *Application) Changes() *notify.Notifier {
	return app.changes
}

// Loaded reports what loading the values file applied.
func (app *Application) Loaded() store.Report {
	return app.loaded
}

// ValuesPath returns the values file, or "" when persistence is off.
func (app *Application) ValuesPath() string {
	return app.valuesPath
}

// IsRunning reports whether the menu is open.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Shutdown releases every component. It is safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdown.Do(func() {
		if app.reg != nil {
			app.reg.Close()
		}
		if app.changes != nil {
			app.changes.Close()
		}
		if app.closeLog != nil {
			if err := app.closeLog(); err != nil {
				app.log.Warn("close log file", "err", err)
			}
		}
	})
}

// DefaultValuesPath is values.toml in the user configuration directory,
// or "" when that directory is unknown.
func DefaultValuesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "menuconf", "values.toml")
}

// liveScaler lets a configuration reload swap the acceleration table while
// the menu reads it.
type liveScaler struct {
	cur atomic.Pointer[stepscale.Scaler]
}

func (s *liveScaler) Scale(step float64, hold time.Duration) float64 {
	return s.cur.Load().Scale(step, hold)
}
