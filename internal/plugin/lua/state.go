// Package lua loads plugin scripts that declare extra settings.
//
// A script runs once in a sandboxed gopher-lua state and declares groups
// and settings through the global "menu" module:
//
//	menu.group("retro", "settings")
//	menu.bool{ name = "retro_scanlines", default = true,
//	           on_change = function(v, name) print(name, v) end }
//	menu.uint{ name = "retro_mask", min = 0, max = 3, options = { "NONE", "APERTURE", "SLOT", "SHADOW" } }
//	menu.end_group()
//
// The settings' storage belongs to the plugin. Plugin.Section replays the
// declarations into a registry builder as owned entries; closing the
// registry closes the plugin and its Lua state.
package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds each script run and callback.
const DefaultExecutionTimeout = 2 * time.Second

// State wraps a gopher-lua state opened with only the safe libraries.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes callers.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

// NewState creates a sandboxed state.
func NewState(timeout time.Duration) *State {
	if timeout <= 0 {
		timeout = DefaultExecutionTimeout
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	return &State{L: L, timeout: timeout}
}

// openSafeLibraries opens base, table, string and math. io, os, debug and
// package stay closed, and the base loaders are removed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// run executes fn under the execution timeout with panic recovery.
func (s *State) run(ctx context.Context, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	err = fn()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrExecutionTimeout, err)
	}
	return err
}

// DoString executes a chunk.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error { return s.L.DoString(code) })
}

// DoFile executes a file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func() error { return s.L.DoFile(path) })
}

// CallFunc calls fn with args, discarding results.
func (s *State) CallFunc(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) error {
	return s.run(ctx, func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	})
}

// RegisterModule installs a global table of Go functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Closing twice is a no-op.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
