package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/menuconf/internal/logger"
)

// Live holds the current preferences. Readers get a consistent snapshot;
// Set and Watch replace it atomically.
type Live struct {
	cur     atomic.Pointer[Config]
	reloads atomic.Uint64
}

// NewLive creates a Live holding cfg.
func NewLive(cfg Config) *Live {
	l := &Live{}
	l.cur.Store(&cfg)
	return l
}

// Get returns the current preferences.
func (l *Live) Get() Config {
	return *l.cur.Load()
}

// Set replaces the current preferences.
func (l *Live) Set(cfg Config) {
	l.cur.Store(&cfg)
}

// Wraparound implements setting.Preferences.
func (l *Live) Wraparound() bool {
	return l.cur.Load().Navigation.Wraparound
}

// Reloads returns how many times Watch replaced the preferences.
func (l *Live) Reloads() uint64 {
	return l.reloads.Load()
}

// Watch reloads path whenever it is written, until ctx is done. The
// directory is watched rather than the file so that editors replacing the
// file by rename are followed. A file that fails to load leaves the
// current preferences in place. onReload, if non-nil, runs on the watcher
// goroutine after each successful reload.
func (l *Live) Watch(ctx context.Context, path string, onReload func(Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}

	go l.watchLoop(ctx, w, abs, onReload)
	return nil
}

func (l *Live) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, onReload func(Config)) {
	log := logger.Component("config")
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				log.Warn("reload failed", "path", path, "err", err)
				continue
			}
			l.Set(cfg)
			l.reloads.Add(1)
			log.Info("reloaded", "path", path)
			if onReload != nil {
				onReload(cfg)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "err", err)
		}
	}
}
