// Package window reconciles user intent for the widget's top-level windows
// with the OS window flags, including recovery from spurious hides.
package window

import (
	"fmt"
	"time"
)

// State is the controller's view of a window.
type State string

// Window states.
const (
	StateVisible   State = "visible"
	StateHidden    State = "hidden"
	StateMinimized State = "minimized"
)

// Bounds is a window rectangle. JSON names match the windowBounds setting.
type Bounds struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// String renders b as WIDTHxHEIGHT+X+Y.
func (b Bounds) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", b.Width, b.Height, b.X, b.Y)
}

// Native is the OS window. Implementations do not report back calls made
// by the controller; OS-originated events are delivered by calling the
// controller's On* methods.
type Native interface {
	IsDestroyed() bool
	IsVisible() bool
	IsMinimized() bool
	Show()
	Hide()
	Restore()
	Focus()
	SetSkipTaskbar(skip bool)
	Bounds() Bounds
	SetBounds(b Bounds)
	IsAlwaysOnTop() bool
	SetAlwaysOnTop(on bool)
	Destroy()
}

// Factory creates a fresh native window.
type Factory func() Native

// BoundsStore persists the last known window rectangle.
type BoundsStore interface {
	SaveBounds(b Bounds) error
	LoadBounds() (Bounds, error)
}

// Timer is a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules on the runtime timer.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
