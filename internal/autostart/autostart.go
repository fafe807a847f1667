// Package autostart registers the widget to start with the user session.
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tasktray/tasktray/internal/config"
)

// EntryName is the desktop entry file name.
const EntryName = "tasktray.desktop"

// Registrar toggles OS auto-start.
type Registrar interface {
	Set(enabled bool) error
	Enabled() (bool, error)
}

// XDGRegistrar manages an XDG autostart desktop entry.
type XDGRegistrar struct {
	dir  string
	exec string
}

// NewXDGRegistrar returns a registrar writing into dir. An empty dir
// resolves to $XDG_CONFIG_HOME/autostart. exec is the command line the
// session runs.
func NewXDGRegistrar(dir, exec string) (*XDGRegistrar, error) {
	if dir == "" {
		home, err := config.ConfigHome()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, "autostart")
	}
	if strings.TrimSpace(exec) == "" {
		return nil, fmt.Errorf("autostart: exec command is required")
	}
	return &XDGRegistrar{dir: dir, exec: exec}, nil
}

// Path returns the desktop entry path.
func (r *XDGRegistrar) Path() string {
	return filepath.Join(r.dir, EntryName)
}

// Set writes or removes the desktop entry.
func (r *XDGRegistrar) Set(enabled bool) error {
	if !enabled {
		if err := os.Remove(r.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove autostart entry: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	if err := os.WriteFile(r.Path(), []byte(r.entry()), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	return nil
}

// Enabled reports whether the desktop entry exists.
func (r *XDGRegistrar) Enabled() (bool, error) {
	_, err := os.Stat(r.Path())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check autostart entry: %w", err)
}

func (r *XDGRegistrar) entry() string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=TaskTray\n")
	b.WriteString("Comment=Tray-resident to-do widget\n")
	fmt.Fprintf(&b, "Exec=%s\n", r.exec)
	b.WriteString("Terminal=true\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return b.String()
}

// Noop remembers the flag in memory only.
type Noop struct {
	enabled bool
}

// Set implements Registrar.
func (n *Noop) Set(enabled bool) error {
	n.enabled = enabled
	return nil
}

// Enabled implements Registrar.
func (n *Noop) Enabled() (bool, error) {
	return n.enabled, nil
}
