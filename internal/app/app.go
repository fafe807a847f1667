// Package app is the command surface the presentation layer calls. It
// wires the task store, settings, and window controllers together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/tasktray/tasktray/internal/settings"
	"github.com/tasktray/tasktray/internal/taskstore"
	"github.com/tasktray/tasktray/internal/window"
)

// ErrNoRestarter is returned by RestartApp when no Restarter is
// configured.
var ErrNoRestarter = errors.New("restart is not supported here")

// Config holds the collaborators of an App.
type Config struct {
	Tasks     *taskstore.Store
	Settings  *settings.Service
	Windows   *window.Manager
	Screen    Screen
	Restarter Restarter
	Logger    *slog.Logger
}

// App is the command surface.
type App struct {
	tasks     *taskstore.Store
	settings  *settings.Service
	windows   *window.Manager
	screen    Screen
	restarter Restarter
	logger    *slog.Logger

	mu      sync.Mutex
	quit    func()
	quitted bool
	restart bool
}

// New creates an App. Tasks, Settings and Windows are required.
func New(cfg Config) (*App, error) {
	if cfg.Tasks == nil || cfg.Settings == nil || cfg.Windows == nil {
		return nil, fmt.Errorf("app: tasks, settings and windows are required")
	}

	a := &App{
		tasks:     cfg.Tasks,
		settings:  cfg.Settings,
		windows:   cfg.Windows,
		screen:    cfg.Screen,
		restarter: cfg.Restarter,
		logger:    cfg.Logger,
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a, nil
}

// Tasks returns the task store.
func (a *App) Tasks() *taskstore.Store { return a.tasks }

// Settings returns the settings service.
func (a *App) Settings() *settings.Service { return a.settings }

// Windows returns the window manager.
func (a *App) Windows() *window.Manager { return a.windows }

// Start loads persisted state and applies it to the OS: the task list,
// the always-on-top flag and the auto-start registration.
func (a *App) Start(ctx context.Context) {
	a.tasks.Load(ctx)

	main := a.windows.Main()
	main.Window().SetBounds(a.settings.WindowBounds())
	main.SetAlwaysOnTop(a.settings.AlwaysOnTop())

	if err := a.settings.ApplyStartWithSystem(); err != nil {
		a.logger.Warn("failed to apply auto-start setting", "error", err)
	}
}

// OnQuit sets the function Quit calls to stop the presentation loop.
func (a *App) OnQuit(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.quit = fn
}

// GetValue returns the stored value for key, or def.
func (a *App) GetValue(key string, def any) any {
	return a.settings.Value(key, def)
}

// SetValue stores value under key. The always-on-top flag is also
// mirrored to the main window.
func (a *App) SetValue(key string, value any) error {
	if err := a.settings.SetValue(key, value); err != nil {
		return err
	}
	if key == settings.KeyAlwaysOnTop {
		a.windows.Main().SetAlwaysOnTop(a.settings.AlwaysOnTop())
	}
	return nil
}

// ToggleAlwaysOnTop flips the main window's flag, stores it and returns
// the new value.
func (a *App) ToggleAlwaysOnTop() bool {
	next := a.windows.Main().ToggleAlwaysOnTop()
	if err := a.settings.SetAlwaysOnTop(next); err != nil {
		a.logger.Warn("failed to save always-on-top", "error", err)
	}
	return next
}

// Minimize hides the main window without arming recovery.
func (a *App) Minimize() {
	a.windows.Main().MinimizeClick()
}

// Close is the main window's close button.
func (a *App) Close() {
	a.windows.Main().CloseClick()
}

// GetScreenWorkArea returns the primary work area.
func (a *App) GetScreenWorkArea() WorkArea {
	if a.screen == nil {
		return WorkArea{}
	}
	return a.screen.WorkArea()
}

// NavigateToSettings opens the settings window.
func (a *App) NavigateToSettings() {
	a.windows.OpenSettings()
}

// NavigateToMain destroys the settings window and shows the main one.
func (a *App) NavigateToMain() {
	a.windows.CloseSettings()
}

// ClearAllData wipes the store, writes the default settings back and
// reloads the now empty task list.
func (a *App) ClearAllData(ctx context.Context) error {
	if err := a.settings.Reset(); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}

	a.tasks.Load(ctx)
	a.windows.Main().SetAlwaysOnTop(a.settings.AlwaysOnTop())
	a.logger.Info("cleared all data")
	return nil
}

// RestartApp asks the presentation loop to stop; Finish then relaunches.
func (a *App) RestartApp() error {
	if a.restarter == nil {
		return ErrNoRestarter
	}

	a.mu.Lock()
	a.restart = true
	a.mu.Unlock()

	a.Quit()
	return nil
}

// Quit stops the presentation loop. Only the first call has an effect.
func (a *App) Quit() {
	a.mu.Lock()
	if a.quitted {
		a.mu.Unlock()
		return
	}
	a.quitted = true
	fn := a.quit
	a.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// RestartRequested reports whether RestartApp was called.
func (a *App) RestartRequested() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.restart
}

// Finish tears the windows down after the presentation loop has exited
// and relaunches if a restart was requested.
func (a *App) Finish() error {
	a.windows.DestroyAll()

	if !a.RestartRequested() {
		return nil
	}
	a.logger.Info("restarting")
	return a.restarter.Restart()
}
