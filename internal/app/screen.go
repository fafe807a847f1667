package app

import (
	"os"
	"syscall"

	"golang.org/x/term"
)

// WorkArea is the usable screen area in the host's units.
type WorkArea struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Screen reports the primary work area.
type Screen interface {
	WorkArea() WorkArea
}

// TerminalScreen measures the controlling terminal.
type TerminalScreen struct {
	Fd       int
	Fallback WorkArea
}

// NewTerminalScreen measures stdout, falling back to 80x24.
func NewTerminalScreen() TerminalScreen {
	return TerminalScreen{Fd: int(os.Stdout.Fd()), Fallback: WorkArea{Width: 80, Height: 24}}
}

// WorkArea implements Screen.
func (s TerminalScreen) WorkArea() WorkArea {
	w, h, err := term.GetSize(s.Fd)
	if err != nil || w <= 0 || h <= 0 {
		return s.Fallback
	}
	return WorkArea{Width: w, Height: h}
}

// Restarter relaunches the program.
type Restarter interface {
	Restart() error
}

// ExecRestarter replaces the process with a fresh copy of the running
// binary and the same arguments. Call it only after the UI has released
// the terminal.
type ExecRestarter struct {
	Path string
	Args []string
}

// NewExecRestarter captures the current executable and arguments.
func NewExecRestarter() (*ExecRestarter, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return &ExecRestarter{Path: path, Args: os.Args[1:]}, nil
}

// Restart implements Restarter.
func (r *ExecRestarter) Restart() error {
	argv := append([]string{r.Path}, r.Args...)
	return syscall.Exec(r.Path, argv, os.Environ())
}
