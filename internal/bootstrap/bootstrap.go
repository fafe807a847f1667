// Package bootstrap assembles a running tasktray from its configuration.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tasktray/tasktray/internal/app"
	"github.com/tasktray/tasktray/internal/autostart"
	"github.com/tasktray/tasktray/internal/bus"
	"github.com/tasktray/tasktray/internal/config"
	"github.com/tasktray/tasktray/internal/kvstore"
	"github.com/tasktray/tasktray/internal/settings"
	"github.com/tasktray/tasktray/internal/state"
	"github.com/tasktray/tasktray/internal/taskstore"
	"github.com/tasktray/tasktray/internal/window"
)

// Window names.
const (
	MainWindow     = "main"
	SettingsWindow = "settings"
)

// settingsBounds is the fixed size of the settings window.
var settingsBounds = window.Bounds{Width: 300, Height: 400, X: 120, Y: 120}

// Options contains the host collaborators. Zero values select in-process
// defaults suitable for the terminal front end.
type Options struct {
	Logger    *slog.Logger
	Registrar autostart.Registrar
	Screen    app.Screen
	Restarter app.Restarter
	Clock     window.Clock

	// NewWindow creates a native window with the given initial bounds.
	NewWindow func(name string, b window.Bounds) window.Native
}

// Runtime is an assembled application.
type Runtime struct {
	App    *app.App
	Bus    *bus.Bus
	Config *config.Config

	kv kvstore.Store
}

// Close releases the store and its process lock.
func (r *Runtime) Close() error {
	if r.kv == nil {
		return nil
	}
	err := r.kv.Close()
	r.kv = nil
	return err
}

// Open builds the runtime: data dir, store, settings, task store, windows
// and command surface, in that order. The task list is not loaded; call
// Start on the App.
func Open(cfg *config.Config, opts Options) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Step 1: data directory
	if err := state.EnsureDataDir(cfg.Store.Dir); err != nil {
		return nil, err
	}

	// Step 2: store
	kv, err := kvstore.Open(cfg.Store.Backend, cfg.Store.Dir)
	if err != nil {
		return nil, err
	}

	// Step 3: settings and broadcast
	b := bus.New()
	registrar := opts.Registrar
	if registrar == nil {
		registrar = &autostart.Noop{}
	}
	svc := settings.NewService(kv,
		settings.WithBus(b),
		settings.WithRegistrar(registrar),
		settings.WithLogger(logger),
		settings.WithMinSize(cfg.Window.MinWidth, cfg.Window.MinHeight),
	)

	// Step 4: tasks
	tasks := taskstore.New(
		taskstore.WithPersister(svc),
		taskstore.WithLogger(logger),
	)

	// Step 5: windows
	newWindow := opts.NewWindow
	if newWindow == nil {
		newWindow = func(_ string, b window.Bounds) window.Native {
			return window.NewMemoryWindow(b)
		}
	}
	clock := opts.Clock
	if clock == nil {
		clock = window.RealClock{}
	}

	main := window.NewController(MainWindow,
		func() window.Native { return newWindow(MainWindow, svc.WindowBounds()) },
		window.WithClock(clock),
		window.WithRecoveryDelay(cfg.Window.RecoveryDelay()),
		window.WithBoundsStore(svc),
		window.WithLogger(logger),
	)
	manager := window.NewManager(main, func() *window.Controller {
		return window.NewController(SettingsWindow,
			func() window.Native { return newWindow(SettingsWindow, settingsBounds) },
			window.WithClock(clock),
			window.WithoutRecovery(),
			window.WithLogger(logger),
		)
	})

	// Step 6: command surface
	a, err := app.New(app.Config{
		Tasks:     tasks,
		Settings:  svc,
		Windows:   manager,
		Screen:    opts.Screen,
		Restarter: opts.Restarter,
		Logger:    logger,
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	return &Runtime{App: a, Bus: b, Config: cfg, kv: kv}, nil
}

// Start opens the runtime and loads persisted state.
func Start(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	rt, err := Open(cfg, opts)
	if err != nil {
		return nil, err
	}
	rt.App.Start(ctx)
	return rt, nil
}
