// Package tui is the terminal presentation of the widget: the task list
// surface and the settings surface, driven through the app command
// surface.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasktray/tasktray/internal/app"
	"github.com/tasktray/tasktray/internal/bus"
	"github.com/tasktray/tasktray/internal/settings"
	"github.com/tasktray/tasktray/internal/taskstore"
	"github.com/tasktray/tasktray/internal/window"
)

type surface int

const (
	surfaceMain surface = iota
	surfaceSettings
	surfaceHidden
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSubtask
	modeEdit
)

// Messages bridged in from other goroutines. They carry no payload; the
// model re-reads current state when it receives them.
type (
	tasksChangedMsg struct{}
	appearanceMsg   struct{}
	windowMsg       struct{}
	quitMsg         struct{}
)

// row is one visible line of the list. subtask is -1 for a task row.
type row struct {
	taskID  string
	subtask int
}

// Options tunes the presentation.
type Options struct {
	RelativeDates bool
	Now           func() time.Time
}

// Model is the root bubbletea model.
type Model struct {
	app  *app.App
	edit *taskstore.EditSession
	opts Options
	ctx  context.Context

	styles  Styles
	theme   settings.Theme
	opacity int

	tasks  []taskstore.Task
	rows   []row
	cursor int
	mode   mode
	kind   taskstore.Kind
	status string
	width  int

	input     textinput.Model
	subInput  textinput.Model
	subTaskID string
	editor    textinput.Model

	settings settingsModel
}

// New builds the model over a started App.
func New(a *app.App, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		app:   a,
		edit:  taskstore.NewEditSession(a.Tasks()),
		opts:  opts,
		ctx:   context.Background(),
		kind:  taskstore.KindSimple,
		input: newInput("Add a task..."),

		subInput: newInput("Add a subtask..."),
		editor:   newInput(""),
	}
	m.applyAppearance()
	m.reload()
	m.input.Focus()
	m.mode = modeAdd
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 32
	ti.Prompt = ""
	return ti
}

// Run starts the program and blocks until the user quits. Store
// notifications, bus broadcasts and window transitions are bridged into
// the program as messages.
func Run(ctx context.Context, a *app.App, b *bus.Bus, opts Options) error {
	m := New(a, opts)
	m.ctx = ctx

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	// Senders may run inside Update, so never block the event loop.
	send := func(msg tea.Msg) { go p.Send(msg) }

	stopTasks := a.Tasks().Observe(func([]taskstore.Task) { send(tasksChangedMsg{}) })
	defer stopTasks()

	if b != nil {
		stopTheme := b.Subscribe(bus.TopicThemeUpdated, func(any) { send(appearanceMsg{}) })
		defer stopTheme()
		stopOpacity := b.Subscribe(bus.TopicOpacityUpdated, func(any) { send(appearanceMsg{}) })
		defer stopOpacity()
	}

	main := a.Windows().Main()
	main.SetStateHook(func(window.State) { send(windowMsg{}) })
	defer main.SetStateHook(nil)

	a.OnQuit(func() { send(quitMsg{}) })

	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 12
		if w < 10 {
			w = 10
		}
		m.input.Width = w
		m.subInput.Width = w - 4
		m.editor.Width = w
		return m, nil
	case tasksChangedMsg:
		m.reload()
		return m, nil
	case appearanceMsg:
		m.applyAppearance()
		return m, nil
	case windowMsg:
		return m, nil
	case quitMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.surface() {
		case surfaceHidden:
			return m.updateHidden(msg)
		case surfaceSettings:
			return m.updateSettings(msg)
		}
		return m.updateMain(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) View() string {
	switch m.surface() {
	case surfaceHidden:
		return m.viewHidden()
	case surfaceSettings:
		return m.viewSettings()
	}
	return m.viewMain()
}

func (m Model) surface() surface {
	windows := m.app.Windows()
	if windows.SettingsOpen() {
		return surfaceSettings
	}
	if windows.Main().State() != window.StateVisible {
		return surfaceHidden
	}
	return surfaceMain
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.app.Quit()
	return m, tea.Quit
}

// updateFocused forwards non-key messages such as cursor blinks to the
// focused input.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeAdd:
		m.input, cmd = m.input.Update(msg)
	case modeSubtask:
		m.subInput, cmd = m.subInput.Update(msg)
	case modeEdit:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m *Model) applyAppearance() {
	svc := m.app.Settings()
	m.theme = svc.Theme()
	m.opacity = svc.Opacity()
	m.styles = NewStyles(m.theme, m.opacity)
}

// reload re-reads the task list and rebuilds the visible rows.
func (m *Model) reload() {
	m.tasks = m.app.Tasks().Tasks()
	rows := make([]row, 0, len(m.tasks))
	for _, t := range m.tasks {
		id := t.Base().ID
		rows = append(rows, row{taskID: id, subtask: -1})
		if mt, ok := t.(*taskstore.MultiTask); ok && mt.Expanded {
			for i := range mt.Subtasks {
				rows = append(rows, row{taskID: id, subtask: i})
			}
		}
	}
	m.rows = rows
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// focusRow moves the cursor to the given row if it is visible.
func (m *Model) focusRow(r row) {
	for i, candidate := range m.rows {
		if candidate == r {
			m.cursor = i
			return
		}
	}
}

func (m Model) task(id string) taskstore.Task {
	for _, t := range m.tasks {
		if t.Base().ID == id {
			return t
		}
	}
	return nil
}

func (m Model) taskIndex(id string) int {
	for i, t := range m.tasks {
		if t.Base().ID == id {
			return i
		}
	}
	return -1
}
