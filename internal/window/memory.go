package window

import "sync"

// MemoryWindow is an in-process Native used by the terminal front end and
// tests. It records flag changes and lets callers simulate OS actions.
type MemoryWindow struct {
	mu          sync.Mutex
	visible     bool
	minimized   bool
	destroyed   bool
	focused     bool
	skipTaskbar bool
	alwaysOnTop bool
	bounds      Bounds
	shows       int
}

// NewMemoryWindow returns a visible window with the given bounds.
func NewMemoryWindow(b Bounds) *MemoryWindow {
	return &MemoryWindow{visible: true, bounds: b}
}

// MemoryFactory returns a Factory producing memory windows and a function
// that reports every window created so far.
func MemoryFactory(b Bounds) (Factory, func() []*MemoryWindow) {
	var (
		mu      sync.Mutex
		created []*MemoryWindow
	)
	factory := func() Native {
		w := NewMemoryWindow(b)
		mu.Lock()
		created = append(created, w)
		mu.Unlock()
		return w
	}
	list := func() []*MemoryWindow {
		mu.Lock()
		defer mu.Unlock()
		return append([]*MemoryWindow(nil), created...)
	}
	return factory, list
}

func (w *MemoryWindow) IsDestroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

func (w *MemoryWindow) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible && !w.minimized && !w.destroyed
}

func (w *MemoryWindow) IsMinimized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized
}

func (w *MemoryWindow) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	w.shows++
}

func (w *MemoryWindow) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
	w.focused = false
}

func (w *MemoryWindow) Restore() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized = false
}

func (w *MemoryWindow) Focus() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focused = true
}

func (w *MemoryWindow) SetSkipTaskbar(skip bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.skipTaskbar = skip
}

func (w *MemoryWindow) Bounds() Bounds {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bounds
}

func (w *MemoryWindow) SetBounds(b Bounds) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bounds = b
}

func (w *MemoryWindow) IsAlwaysOnTop() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alwaysOnTop
}

func (w *MemoryWindow) SetAlwaysOnTop(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.alwaysOnTop = on
}

func (w *MemoryWindow) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
	w.visible = false
}

// Minimize simulates the OS minimizing the window.
func (w *MemoryWindow) Minimize() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized = true
}

// ExternalHide simulates the OS hiding the window behind the
// controller's back, as a show-desktop gesture does.
func (w *MemoryWindow) ExternalHide() {
	w.Hide()
}

// Move simulates the user dragging or resizing the window.
func (w *MemoryWindow) Move(b Bounds) {
	w.SetBounds(b)
}

// SkipsTaskbar reports the last skip-taskbar flag set.
func (w *MemoryWindow) SkipsTaskbar() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.skipTaskbar
}

// Focused reports whether Focus was called since the last hide.
func (w *MemoryWindow) Focused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

// ShowCount returns how many times Show was called.
func (w *MemoryWindow) ShowCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}
