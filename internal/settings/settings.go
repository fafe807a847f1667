// Package settings exposes the widget's persisted preferences as typed
// values over a kvstore, and broadcasts appearance changes.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tasktray/tasktray/internal/window"
)

// Persisted keys.
const (
	KeyTasks           = "tasks"
	KeyWindowBounds    = "windowBounds"
	KeyTheme           = "theme"
	KeyOpacity         = "opacity"
	KeyAlwaysOnTop     = "alwaysOnTop"
	KeyStartWithSystem = "startWithSystem"
	KeyMinimizeToTray  = "minimizeToTray"
)

// Opacity bounds.
const (
	MinOpacity = 0
	MaxOpacity = 100
)

var (
	// ErrUnknownKey is returned when a key is not a known setting.
	ErrUnknownKey = errors.New("unknown setting")

	// ErrInvalidValue is returned when a value cannot be parsed for a key.
	ErrInvalidValue = errors.New("invalid setting value")
)

// Theme is the color scheme.
type Theme string

// Themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme parses a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("%w: theme must be dark or light, got %q", ErrInvalidValue, s)
}

// ClampOpacity bounds an opacity percentage to 0-100.
func ClampOpacity(v int) int {
	if v < MinOpacity {
		return MinOpacity
	}
	if v > MaxOpacity {
		return MaxOpacity
	}
	return v
}

// Values is a full snapshot of the settings.
type Values struct {
	WindowBounds    window.Bounds `json:"windowBounds" yaml:"windowBounds"`
	Theme           Theme         `json:"theme" yaml:"theme"`
	Opacity         int           `json:"opacity" yaml:"opacity"`
	AlwaysOnTop     bool          `json:"alwaysOnTop" yaml:"alwaysOnTop"`
	StartWithSystem bool          `json:"startWithSystem" yaml:"startWithSystem"`
	MinimizeToTray  bool          `json:"minimizeToTray" yaml:"minimizeToTray"`
}

// Defaults returns the settings of a fresh install.
func Defaults() Values {
	return Values{
		WindowBounds:    window.Bounds{Width: 320, Height: 480, X: 100, Y: 100},
		Theme:           ThemeDark,
		Opacity:         80,
		AlwaysOnTop:     true,
		StartWithSystem: false,
		MinimizeToTray:  false,
	}
}

// Keys lists the setting keys in display order. The task list is not a
// setting and is not included.
func Keys() []string {
	return []string{
		KeyWindowBounds,
		KeyTheme,
		KeyOpacity,
		KeyAlwaysOnTop,
		KeyStartWithSystem,
		KeyMinimizeToTray,
	}
}

// values flattens v into the stored key/value form.
func (v Values) values() map[string]any {
	return map[string]any{
		KeyWindowBounds:    v.WindowBounds,
		KeyTheme:           v.Theme,
		KeyOpacity:         v.Opacity,
		KeyAlwaysOnTop:     v.AlwaysOnTop,
		KeyStartWithSystem: v.StartWithSystem,
		KeyMinimizeToTray:  v.MinimizeToTray,
	}
}

// parseBool accepts the usual spellings plus on/off.
func parseBool(key, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false, got %q", ErrInvalidValue, key, s)
	}
	return b, nil
}

// parseBounds accepts WIDTHxHEIGHT or WIDTHxHEIGHT+X+Y.
func parseBounds(s string) (window.Bounds, error) {
	bad := fmt.Errorf("%w: windowBounds must look like 320x480+100+100, got %q", ErrInvalidValue, s)

	size, pos, hasPos := strings.Cut(strings.TrimSpace(s), "+")
	ws, hs, ok := strings.Cut(size, "x")
	if !ok {
		return window.Bounds{}, bad
	}

	var b window.Bounds
	var err error
	if b.Width, err = strconv.Atoi(ws); err != nil {
		return window.Bounds{}, bad
	}
	if b.Height, err = strconv.Atoi(hs); err != nil {
		return window.Bounds{}, bad
	}
	if hasPos {
		xs, ys, ok := strings.Cut(pos, "+")
		if !ok {
			return window.Bounds{}, bad
		}
		if b.X, err = strconv.Atoi(xs); err != nil {
			return window.Bounds{}, bad
		}
		if b.Y, err = strconv.Atoi(ys); err != nil {
			return window.Bounds{}, bad
		}
	}
	if b.Width <= 0 || b.Height <= 0 {
		return window.Bounds{}, bad
	}
	return b, nil
}
