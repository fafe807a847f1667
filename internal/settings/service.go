package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tasktray/tasktray/internal/autostart"
	"github.com/tasktray/tasktray/internal/bus"
	"github.com/tasktray/tasktray/internal/kvstore"
	"github.com/tasktray/tasktray/internal/taskstore"
	"github.com/tasktray/tasktray/internal/window"
)

// Option configures a Service.
type Option func(*Service)

// WithBus sets the bus that theme and opacity changes are published on.
func WithBus(b *bus.Bus) Option {
	return func(s *Service) { s.bus = b }
}

// WithRegistrar sets the auto-start registrar mirrored by startWithSystem.
func WithRegistrar(r autostart.Registrar) Option {
	return func(s *Service) { s.registrar = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMinSize sets the smallest window size LoadBounds will return.
func WithMinSize(width, height int) Option {
	return func(s *Service) {
		s.minWidth = width
		s.minHeight = height
	}
}

// Service reads and writes settings. Reads never fail: a missing or
// unreadable value falls back to its default.
type Service struct {
	kv        kvstore.Store
	bus       *bus.Bus
	registrar autostart.Registrar
	logger    *slog.Logger
	minWidth  int
	minHeight int
}

// NewService creates a Service over kv.
func NewService(kv kvstore.Store, opts ...Option) *Service {
	s := &Service{
		kv:     kv,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bus returns the notification bus, which may be nil.
func (s *Service) Bus() *bus.Bus { return s.bus }

// get decodes key into dst and reports whether a usable value was found.
func (s *Service) get(key string, dst any) bool {
	found, err := s.kv.Get(key, dst)
	if err != nil {
		s.logger.Warn("failed to read setting, using default", "key", key, "error", err)
		return false
	}
	return found
}

func (s *Service) set(key string, value any) error {
	if err := s.kv.Set(key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *Service) publish(topic string, payload any) {
	if s.bus != nil {
		s.bus.Publish(topic, payload)
	}
}

// Theme returns the stored theme.
func (s *Service) Theme() Theme {
	var raw string
	if !s.get(KeyTheme, &raw) {
		return Defaults().Theme
	}
	t, err := ParseTheme(raw)
	if err != nil {
		s.logger.Warn("ignoring stored theme", "value", raw)
		return Defaults().Theme
	}
	return t
}

// SetTheme stores the theme and publishes theme-updated.
func (s *Service) SetTheme(t Theme) error {
	t, err := ParseTheme(string(t))
	if err != nil {
		return err
	}
	if err := s.set(KeyTheme, t); err != nil {
		return err
	}
	s.publish(bus.TopicThemeUpdated, t)
	return nil
}

// ToggleTheme flips and stores the theme.
func (s *Service) ToggleTheme() (Theme, error) {
	next := s.Theme().Toggle()
	return next, s.SetTheme(next)
}

// Opacity returns the stored opacity percentage.
func (s *Service) Opacity() int {
	var v int
	if !s.get(KeyOpacity, &v) {
		return Defaults().Opacity
	}
	return ClampOpacity(v)
}

// SetOpacity clamps, stores and publishes opacity. It returns the stored
// value.
func (s *Service) SetOpacity(v int) (int, error) {
	v = ClampOpacity(v)
	if err := s.set(KeyOpacity, v); err != nil {
		return v, err
	}
	s.publish(bus.TopicOpacityUpdated, v)
	return v, nil
}

// AlwaysOnTop returns the stored always-on-top flag.
func (s *Service) AlwaysOnTop() bool {
	var v bool
	if !s.get(KeyAlwaysOnTop, &v) {
		return Defaults().AlwaysOnTop
	}
	return v
}

// SetAlwaysOnTop stores the always-on-top flag.
func (s *Service) SetAlwaysOnTop(on bool) error {
	return s.set(KeyAlwaysOnTop, on)
}

// StartWithSystem returns the stored auto-start flag.
func (s *Service) StartWithSystem() bool {
	var v bool
	if !s.get(KeyStartWithSystem, &v) {
		return Defaults().StartWithSystem
	}
	return v
}

// SetStartWithSystem registers or unregisters auto-start, then stores the
// flag. Nothing is stored if registration fails.
func (s *Service) SetStartWithSystem(on bool) error {
	if s.registrar != nil {
		if err := s.registrar.Set(on); err != nil {
			return fmt.Errorf("failed to update auto-start: %w", err)
		}
	}
	return s.set(KeyStartWithSystem, on)
}

// ApplyStartWithSystem mirrors the stored flag to the registrar.
func (s *Service) ApplyStartWithSystem() error {
	if s.registrar == nil {
		return nil
	}
	if err := s.registrar.Set(s.StartWithSystem()); err != nil {
		return fmt.Errorf("failed to update auto-start: %w", err)
	}
	return nil
}

// MinimizeToTray returns the stored flag.
func (s *Service) MinimizeToTray() bool {
	var v bool
	if !s.get(KeyMinimizeToTray, &v) {
		return Defaults().MinimizeToTray
	}
	return v
}

// SetMinimizeToTray stores the flag.
func (s *Service) SetMinimizeToTray(on bool) error {
	return s.set(KeyMinimizeToTray, on)
}

// WindowBounds returns the stored bounds, never smaller than the minimum
// window size.
func (s *Service) WindowBounds() window.Bounds {
	var b window.Bounds
	if !s.get(KeyWindowBounds, &b) {
		b = Defaults().WindowBounds
	}
	if b.Width < s.minWidth {
		b.Width = s.minWidth
	}
	if b.Height < s.minHeight {
		b.Height = s.minHeight
	}
	return b
}

// SaveBounds implements window.BoundsStore.
func (s *Service) SaveBounds(b window.Bounds) error {
	return s.set(KeyWindowBounds, b)
}

// LoadBounds implements window.BoundsStore.
func (s *Service) LoadBounds() (window.Bounds, error) {
	return s.WindowBounds(), nil
}

// Snapshot returns every setting.
func (s *Service) Snapshot() Values {
	return Values{
		WindowBounds:    s.WindowBounds(),
		Theme:           s.Theme(),
		Opacity:         s.Opacity(),
		AlwaysOnTop:     s.AlwaysOnTop(),
		StartWithSystem: s.StartWithSystem(),
		MinimizeToTray:  s.MinimizeToTray(),
	}
}

// Value returns the value stored under key, or def when it is absent.
// Known keys go through their typed getters; anything else is returned as
// decoded JSON.
func (s *Service) Value(key string, def any) any {
	switch key {
	case KeyWindowBounds, KeyTheme, KeyOpacity, KeyAlwaysOnTop, KeyStartWithSystem, KeyMinimizeToTray:
		var probe json.RawMessage
		if !s.get(key, &probe) {
			return def
		}
	}

	switch key {
	case KeyWindowBounds:
		return s.WindowBounds()
	case KeyTheme:
		return s.Theme()
	case KeyOpacity:
		return s.Opacity()
	case KeyAlwaysOnTop:
		return s.AlwaysOnTop()
	case KeyStartWithSystem:
		return s.StartWithSystem()
	case KeyMinimizeToTray:
		return s.MinimizeToTray()
	}

	var v any
	if !s.get(key, &v) {
		return def
	}
	return v
}

// SetValue stores value under key. Known keys go through their typed
// setters so side effects such as broadcasts and auto-start happen.
func (s *Service) SetValue(key string, value any) error {
	switch key {
	case KeyTheme:
		t, ok := value.(Theme)
		if !ok {
			str, isStr := value.(string)
			if !isStr {
				return fmt.Errorf("%w: theme must be a string", ErrInvalidValue)
			}
			t = Theme(str)
		}
		return s.SetTheme(t)
	case KeyOpacity:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: opacity must be an integer", ErrInvalidValue)
		}
		_, err := s.SetOpacity(v)
		return err
	case KeyStartWithSystem:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: startWithSystem must be a boolean", ErrInvalidValue)
		}
		return s.SetStartWithSystem(v)
	case KeyAlwaysOnTop, KeyMinimizeToTray:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %s must be a boolean", ErrInvalidValue, key)
		}
	case KeyWindowBounds:
		if _, ok := value.(window.Bounds); !ok {
			return fmt.Errorf("%w: windowBounds must be bounds", ErrInvalidValue)
		}
	}
	return s.set(key, value)
}

// SetString parses raw for a known key and stores it.
func (s *Service) SetString(key, raw string) error {
	switch key {
	case KeyTheme:
		t, err := ParseTheme(raw)
		if err != nil {
			return err
		}
		return s.SetTheme(t)
	case KeyOpacity:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: opacity must be an integer, got %q", ErrInvalidValue, raw)
		}
		_, err = s.SetOpacity(v)
		return err
	case KeyAlwaysOnTop, KeyStartWithSystem, KeyMinimizeToTray:
		v, err := parseBool(key, raw)
		if err != nil {
			return err
		}
		return s.SetValue(key, v)
	case KeyWindowBounds:
		b, err := parseBounds(raw)
		if err != nil {
			return err
		}
		return s.SaveBounds(b)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Reset clears the whole store, task list included, and writes the
// defaults back.
func (s *Service) Reset() error {
	if err := s.kv.Clear(); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	defaults := Defaults()
	if err := s.kv.SetMany(defaults.values()); err != nil {
		return fmt.Errorf("failed to write defaults: %w", err)
	}
	if s.registrar != nil {
		if err := s.registrar.Set(defaults.StartWithSystem); err != nil {
			s.logger.Warn("failed to reset auto-start", "error", err)
		}
	}
	s.publish(bus.TopicThemeUpdated, defaults.Theme)
	s.publish(bus.TopicOpacityUpdated, defaults.Opacity)
	return nil
}

// LoadTasks implements taskstore.Persister. A missing list is empty.
func (s *Service) LoadTasks(ctx context.Context) ([]taskstore.Task, error) {
	var list taskstore.List
	found, err := s.kv.Get(KeyTasks, &list)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if !found {
		return nil, nil
	}
	return list, nil
}

// SaveTasks implements taskstore.Persister.
func (s *Service) SaveTasks(ctx context.Context, tasks []taskstore.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(KeyTasks, taskstore.List(tasks))
}
