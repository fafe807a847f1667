package window

import "sync"

// Manager owns the main window and the lazily created settings window.
type Manager struct {
	main        *Controller
	newSettings func() *Controller

	mu       sync.Mutex
	settings *Controller
}

// NewManager wraps an existing main controller. newSettings builds the
// settings controller on first use.
func NewManager(main *Controller, newSettings func() *Controller) *Manager {
	return &Manager{main: main, newSettings: newSettings}
}

// Main returns the main window controller.
func (m *Manager) Main() *Controller { return m.main }

// Settings returns the settings controller, or nil if it was never opened
// or has been closed.
func (m *Manager) Settings() *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// SettingsOpen reports whether the settings window exists.
func (m *Manager) SettingsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings != nil && m.settings.Alive()
}

// OpenSettings shows the settings window, creating it if needed.
func (m *Manager) OpenSettings() *Controller {
	m.mu.Lock()
	if m.settings == nil || !m.settings.Alive() {
		m.settings = m.newSettings()
	}
	s := m.settings
	m.mu.Unlock()

	s.Show()
	return s
}

// CloseSettings destroys the settings window and brings the main window
// back.
func (m *Manager) CloseSettings() {
	m.mu.Lock()
	s := m.settings
	m.settings = nil
	m.mu.Unlock()

	if s != nil {
		s.Destroy()
	}
	m.main.Show()
}

// DestroyAll tears down every window before quitting.
func (m *Manager) DestroyAll() {
	m.mu.Lock()
	s := m.settings
	m.settings = nil
	m.mu.Unlock()

	if s != nil {
		s.Destroy()
	}
	m.main.Destroy()
}
