package window

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultRecoveryDelay is how long a hide waits before checking whether
// the window should be brought back.
const DefaultRecoveryDelay = 100 * time.Millisecond

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the timer source.
func WithClock(c Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithRecoveryDelay overrides DefaultRecoveryDelay.
func WithRecoveryDelay(d time.Duration) Option {
	return func(ctl *Controller) { ctl.delay = d }
}

// WithBoundsStore sets where bounds are saved on hide and read on recovery.
func WithBoundsStore(s BoundsStore) Option {
	return func(ctl *Controller) { ctl.bounds = s }
}

// WithoutRecovery disables hide recovery for this window entirely.
func WithoutRecovery() Option {
	return func(ctl *Controller) {
		ctl.recoveryAllowed = false
		ctl.recovery = false
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) { ctl.logger = l }
}

// WithStateHook registers a function called after every transition.
func WithStateHook(fn func(State)) Option {
	return func(ctl *Controller) { ctl.hook = fn }
}

// Controller is the visibility state machine for one window.
//
// The recovery flag decides whether an unexpected hide, such as a
// show-desktop gesture, brings the window back after a short delay.
// It is on by default and after every show, and off after a deliberate
// minimize. Pending recovery checks are superseded, not cancelled: each
// show or minimize bumps a generation counter and stale checks exit.
type Controller struct {
	name    string
	factory Factory
	bounds  BoundsStore
	clock   Clock
	delay   time.Duration
	logger  *slog.Logger
	hook    func(State)

	mu              sync.Mutex
	win             Native
	state           State
	skipTaskbar     bool
	recovery        bool
	recoveryAllowed bool
	generation      uint64
}

// NewController creates a controller and its window.
func NewController(name string, factory Factory, opts ...Option) *Controller {
	c := &Controller{
		name:            name,
		factory:         factory,
		clock:           RealClock{},
		delay:           DefaultRecoveryDelay,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		recovery:        true,
		recoveryAllowed: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	c.ensure()
	c.mu.Unlock()
	return c
}

// Name returns the window's name.
func (c *Controller) Name() string { return c.name }

// State returns the current visibility state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SkipTaskbar reports whether the window is kept off the taskbar.
func (c *Controller) SkipTaskbar() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skipTaskbar
}

// RecoveryEnabled reports whether a hide will schedule a recovery check.
func (c *Controller) RecoveryEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recovery
}

// Window returns the native window, recreating it if it was destroyed.
func (c *Controller) Window() Native {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensure()
}

// Alive reports whether the native window exists and is not destroyed.
func (c *Controller) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive() != nil
}

// CloseClick intercepts the close button. The window is never destroyed;
// it only leaves the taskbar and keeps its content.
func (c *Controller) CloseClick() {
	c.transition(func() {
		win := c.ensure()
		c.saveBounds(win)
		c.setSkipTaskbar(win, true)
	})
}

// MinimizeClick replaces a native minimize with a hide that recovery
// will not undo.
func (c *Controller) MinimizeClick() {
	c.Hide()
}

// Hide hides the window deliberately. Recovery stays off until the next
// show.
func (c *Controller) Hide() {
	c.transition(func() {
		c.recovery = false
		c.generation++
		win := c.ensure()
		win.Hide()
		c.handleHide(win)
	})
}

// OnNativeMinimized records a minimize the OS performed without giving
// the controller a chance to intercept it.
func (c *Controller) OnNativeMinimized() {
	c.transition(func() {
		c.recovery = false
		c.generation++
		c.state = StateMinimized
	})
}

// OnHide handles a hide event coming from the OS.
func (c *Controller) OnHide() {
	c.transition(func() {
		if win := c.alive(); win != nil {
			c.handleHide(win)
		}
	})
}

// OnShow handles a show event coming from the OS.
func (c *Controller) OnShow() {
	c.transition(func() {
		if win := c.alive(); win != nil {
			c.handleShow(win)
		}
	})
}

// Show brings the window back, restoring it first if minimized.
func (c *Controller) Show() {
	c.transition(func() {
		win := c.ensure()
		if win.IsMinimized() {
			win.Restore()
		}
		win.Show()
		win.Focus()
		c.handleShow(win)
	})
}

// TrayClick toggles the window from the tray icon. Hiding this way is
// deliberate, so it does not arm recovery.
func (c *Controller) TrayClick() {
	c.mu.Lock()
	visible := c.state == StateVisible
	if win := c.alive(); win != nil {
		visible = win.IsVisible()
	}
	c.mu.Unlock()

	if visible {
		c.Hide()
		return
	}
	c.Show()
}

// ToggleAlwaysOnTop flips the native always-on-top flag and returns the
// new value.
func (c *Controller) ToggleAlwaysOnTop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	win := c.ensure()
	next := !win.IsAlwaysOnTop()
	win.SetAlwaysOnTop(next)
	return next
}

// SetAlwaysOnTop mirrors the setting to the native flag.
func (c *Controller) SetAlwaysOnTop(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensure().SetAlwaysOnTop(on)
}

// Destroy destroys the native window. The next operation that needs a
// window recreates it.
func (c *Controller) Destroy() {
	c.transition(func() {
		if win := c.alive(); win != nil {
			win.Destroy()
		}
		c.win = nil
		c.generation++
		c.state = StateHidden
	})
}

// SetStateHook replaces the function called after every transition.
func (c *Controller) SetStateHook(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = fn
}

func (c *Controller) transition(fn func()) {
	c.mu.Lock()
	fn()
	st := c.state
	hook := c.hook
	c.mu.Unlock()

	if hook != nil {
		hook(st)
	}
}

// handleHide applies the hide transition. Caller holds the lock.
func (c *Controller) handleHide(win Native) {
	c.setSkipTaskbar(win, true)
	c.saveBounds(win)
	c.state = StateHidden

	if !c.recovery {
		return
	}
	gen := c.generation
	c.clock.AfterFunc(c.delay, func() {
		c.recover(gen)
	})
}

// handleShow applies the show transition. Caller holds the lock.
func (c *Controller) handleShow(win Native) {
	c.setSkipTaskbar(win, false)
	c.recovery = c.recoveryAllowed
	c.generation++
	c.state = StateVisible
}

// recover runs from the recovery timer.
func (c *Controller) recover(gen uint64) {
	c.transition(func() {
		if gen != c.generation {
			return
		}
		win := c.alive()
		if win == nil || win.IsVisible() {
			return
		}

		b := win.Bounds()
		if c.bounds != nil {
			saved, err := c.bounds.LoadBounds()
			if err != nil {
				c.logger.Warn("failed to load window bounds", "window", c.name, "error", err)
			} else {
				b = saved
			}
		}

		c.logger.Debug("restoring window after unexpected hide", "window", c.name)
		win.SetBounds(b)
		win.Show()
		c.handleShow(win)
	})
}

// alive returns the window if it exists and is not destroyed.
// Caller holds the lock.
func (c *Controller) alive() Native {
	if c.win == nil || c.win.IsDestroyed() {
		return nil
	}
	return c.win
}

// ensure returns a live window, creating one if needed.
// Caller holds the lock.
func (c *Controller) ensure() Native {
	if win := c.alive(); win != nil {
		return win
	}

	c.win = c.factory()
	c.skipTaskbar = false
	c.state = StateHidden
	if c.win.IsVisible() {
		c.state = StateVisible
	}
	return c.win
}

func (c *Controller) setSkipTaskbar(win Native, skip bool) {
	win.SetSkipTaskbar(skip)
	c.skipTaskbar = skip
}

func (c *Controller) saveBounds(win Native) {
	if c.bounds == nil {
		return
	}
	if err := c.bounds.SaveBounds(win.Bounds()); err != nil {
		c.logger.Warn("failed to save window bounds", "window", c.name, "error", err)
	}
}
