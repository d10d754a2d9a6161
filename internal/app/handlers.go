package app

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/dshills/menuconf/internal/catalog"
	"github.com/dshills/menuconf/internal/command"
	"github.com/dshills/menuconf/internal/logger"
)

// subscribe registers the handlers of the built-in commands.
func (app *Application) subscribe() error {
	handlers := []struct {
		id command.ID
		h  command.Handler
	}{
		{catalog.CmdLogVerbosity, app.applyVerbosity},
		{catalog.CmdRewind, app.reinit("rewind")},
		{catalog.CmdVideoReinit, app.reinit("video")},
		{catalog.CmdAudioReinit, app.reinit("audio")},
		{catalog.CmdSaveConfig, func(context.Context, command.ID) error { return app.Save() }},
		{catalog.CmdQuit, app.requestQuit},
	}
	for _, h := range handlers {
		if _, err := app.bus.Subscribe(h.id, h.h); err != nil {
			return err
		}
	}

	cmdLog := logger.Component("command")
	_, err := app.bus.Subscribe(command.None, func(_ context.Context, id command.ID) error {
		cmdLog.Debug("fired", "command", id)
		return nil
	})
	return err
}

// applyVerbosity switches the process logger between debug and the
// configured level.
func (app *Application) applyVerbosity(context.Context, command.ID) error {
	level, err := logger.ParseLevel(app.Config().Log.Level)
	if err != nil {
		return err
	}
	if app.opts.LogLevel != "" {
		if level, err = logger.ParseLevel(app.opts.LogLevel); err != nil {
			return err
		}
	}
	if app.values.General.LogVerbosity {
		level = log.DebugLevel
	}
	logger.Logger.SetLevel(level)
	app.log.SetLevel(level)
	app.log.Info("log level changed", "level", level)
	return nil
}

// reinit logs a driver restart. The drivers themselves live outside this
// program; the command marks the point where a host would restart them.
func (app *Application) reinit(driver string) command.Handler {
	return func(_ context.Context, id command.ID) error {
		v := app.values
		switch driver {
		case "video":
			app.log.Info("reinit", "driver", driver, "name", v.Video.Driver,
				"fullscreen", v.Video.Fullscreen, "scale", v.Video.Scale)
		case "audio":
			app.log.Info("reinit", "driver", driver, "name", v.Audio.Driver,
				"enabled", v.Audio.Enable, "rate", v.Audio.OutRate)
		default:
			app.log.Info("reinit", "driver", driver, "command", id, "enabled", v.General.Rewind)
		}
		return nil
	}
}

// requestQuit closes the open menu.
func (app *Application) requestQuit(context.Context, command.ID) error {
	app.mu.Lock()
	cancel := app.cancel
	app.mu.Unlock()
	if cancel == nil {
		return ErrNotRunning
	}
	cancel(errQuit)
	return nil
}
