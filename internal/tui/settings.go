package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasktray/tasktray/internal/settings"
)

// opacityStep is how far one left/right press moves the opacity.
const opacityStep = 5

type settingsField int

const (
	fieldOpacity settingsField = iota
	fieldTheme
	fieldAlwaysOnTop
	fieldStartWithSystem
	fieldMinimizeToTray
	fieldClearData
	fieldBack
	fieldCount
)

var fieldLabels = map[settingsField]string{
	fieldOpacity:         "Opacity",
	fieldTheme:           "Theme",
	fieldAlwaysOnTop:     "Always on top",
	fieldStartWithSystem: "Start with system",
	fieldMinimizeToTray:  "Minimize to tray",
	fieldClearData:       "Clear all data",
	fieldBack:            "Back",
}

type settingsModel struct {
	cursor       settingsField
	confirm      bool
	alert        string
	alertErr     bool
	restartAfter bool
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	st := &m.settings

	if st.alert != "" {
		restart := st.restartAfter
		*st = settingsModel{cursor: st.cursor}
		if restart {
			if err := m.app.RestartApp(); err == nil {
				return m, tea.Quit
			}
			m.app.NavigateToMain()
		}
		return m, nil
	}

	if st.confirm {
		switch key {
		case "y", "Y", "enter":
			st.confirm = false
			if err := m.app.ClearAllData(m.ctx); err != nil {
				st.alert = "Failed to clear data. Please try again."
				st.alertErr = true
				return m, nil
			}
			m.applyAppearance()
			m.reload()
			st.alert = "All data has been cleared. The app will now restart."
			st.restartAfter = true
		case "n", "N", "esc":
			st.confirm = false
		}
		return m, nil
	}

	svc := m.app.Settings()
	switch key {
	case "up", "k":
		if st.cursor > 0 {
			st.cursor--
		}
	case "down", "j", "tab":
		if st.cursor < fieldCount-1 {
			st.cursor++
		}
	case "left", "h":
		if st.cursor == fieldOpacity {
			m.setOpacity(svc.Opacity() - opacityStep)
		}
	case "right", "l":
		if st.cursor == fieldOpacity {
			m.setOpacity(svc.Opacity() + opacityStep)
		}
	case " ", "space", "enter":
		return m.activateSetting()
	case "esc", "q":
		m.app.NavigateToMain()
		m.reload()
	}
	return m, nil
}

func (m *Model) setOpacity(v int) {
	if _, err := m.app.Settings().SetOpacity(v); err != nil {
		m.showError(err)
	}
	m.applyAppearance()
}

func (m *Model) showError(err error) {
	m.settings.alert = err.Error()
	m.settings.alertErr = true
}

func (m Model) activateSetting() (tea.Model, tea.Cmd) {
	svc := m.app.Settings()

	switch m.settings.cursor {
	case fieldOpacity:
		next := svc.Opacity() + opacityStep
		if next > settings.MaxOpacity {
			next = settings.MinOpacity
		}
		m.setOpacity(next)
	case fieldTheme:
		if _, err := svc.ToggleTheme(); err != nil {
			m.showError(err)
		}
		m.applyAppearance()
	case fieldAlwaysOnTop:
		if err := m.app.SetValue(settings.KeyAlwaysOnTop, !svc.AlwaysOnTop()); err != nil {
			m.showError(err)
		}
	case fieldStartWithSystem:
		if err := svc.SetStartWithSystem(!svc.StartWithSystem()); err != nil {
			m.showError(err)
		}
	case fieldMinimizeToTray:
		if err := svc.SetMinimizeToTray(!svc.MinimizeToTray()); err != nil {
			m.showError(err)
		}
	case fieldClearData:
		m.settings.confirm = true
	case fieldBack:
		m.app.NavigateToMain()
		m.reload()
	}
	return m, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m Model) viewSettings() string {
	s := m.styles
	st := m.settings
	vals := m.app.Settings().Snapshot()

	var b strings.Builder
	b.WriteString(s.Title.Render("Settings") + "\n\n")

	for f := settingsField(0); f < fieldCount; f++ {
		cursor := "  "
		label := s.Text
		if f == st.cursor {
			cursor = s.Cursor.Render("> ")
			label = s.Selected
		}

		var value string
		switch f {
		case fieldOpacity:
			value = fmt.Sprintf("< %d%% >", vals.Opacity)
		case fieldTheme:
			value = string(vals.Theme)
		case fieldAlwaysOnTop:
			value = onOff(vals.AlwaysOnTop)
		case fieldStartWithSystem:
			value = onOff(vals.StartWithSystem)
		case fieldMinimizeToTray:
			value = onOff(vals.MinimizeToTray)
		}

		line := label.Render(fmt.Sprintf("%-18s", fieldLabels[f]))
		if f == fieldClearData {
			line = s.Error.Render(fieldLabels[f])
		}
		if value != "" {
			line += " " + s.Badge.Render(value)
		}
		b.WriteString(cursor + line + "\n")
	}

	switch {
	case st.confirm:
		b.WriteString("\n" + s.Error.Render("Are you sure you want to clear all data? This action cannot be undone. (y/n)") + "\n")
	case st.alert != "":
		style := s.Text
		if st.alertErr {
			style = s.Error
		}
		b.WriteString("\n" + style.Render(st.alert) + "\n" + s.Muted.Render("Press any key to continue.") + "\n")
	}

	b.WriteString(s.Footer.Render("up/down move · left/right opacity · enter change · esc back"))
	return s.Frame.Render(b.String())
}
