package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktray/tasktray/internal/app"
	"github.com/tasktray/tasktray/internal/bus"
	"github.com/tasktray/tasktray/internal/kvstore"
	"github.com/tasktray/tasktray/internal/settings"
	"github.com/tasktray/tasktray/internal/taskstore"
	"github.com/tasktray/tasktray/internal/window"
)

type idleClock struct{}

func (idleClock) AfterFunc(time.Duration, func()) window.Timer { return idleTimer{} }

type idleTimer struct{}

func (idleTimer) Stop() bool { return false }

type fakeRestarter struct{ calls int }

func (r *fakeRestarter) Restart() error {
	r.calls++
	return nil
}

type env struct {
	app       *app.App
	bus       *bus.Bus
	restarter *fakeRestarter
}

func newEnv(t *testing.T) *env {
	t.Helper()

	b := bus.New()
	svc := settings.NewService(kvstore.NewMemoryStore(), settings.WithBus(b))

	n := 0
	store := taskstore.New(
		taskstore.WithPersister(svc),
		taskstore.WithIDFunc(func() string {
			n++
			return "id-" + string(rune('a'+n-1))
		}),
		taskstore.WithClock(func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }),
	)

	mainFactory, _ := window.MemoryFactory(window.Bounds{Width: 320, Height: 480})
	settingsFactory, _ := window.MemoryFactory(window.Bounds{Width: 300, Height: 400})
	main := window.NewController("main", mainFactory, window.WithClock(idleClock{}))
	manager := window.NewManager(main, func() *window.Controller {
		return window.NewController("settings", settingsFactory, window.WithClock(idleClock{}), window.WithoutRecovery())
	})

	r := &fakeRestarter{}
	a, err := app.New(app.Config{Tasks: store, Settings: svc, Windows: manager, Restarter: r})
	require.NoError(t, err)
	return &env{app: a, bus: b, restarter: r}
}

func newModel(t *testing.T) (Model, *env) {
	t.Helper()
	e := newEnv(t)
	m := New(e.app, Options{
		RelativeDates: true,
		Now:           func() time.Time { return time.Date(2026, 5, 1, 9, 5, 0, 0, time.UTC) },
	})
	return m, e
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the model in order.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func texts(tasks []taskstore.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Base().Text)
	}
	return out
}

func TestModel_StartsWithInputFocused(t *testing.T) {
	m, _ := newModel(t)

	assert.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.View(), "No tasks yet")
	assert.Contains(t, m.View(), "0 tasks")
}

func TestModel_AddTasks(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "Buy milk", "enter", "tab", "Groceries", "enter")

	assert.Equal(t, []string{"Groceries", "Buy milk"}, texts(e.app.Tasks().Tasks()))
	assert.Equal(t, taskstore.KindMulti, e.app.Tasks().Tasks()[0].Kind())
	assert.Equal(t, taskstore.KindSimple, e.app.Tasks().Tasks()[1].Kind())
	assert.Empty(t, m.input.Value())

	view := m.View()
	assert.Contains(t, view, "[multi]")
	assert.Contains(t, view, "2 tasks")
}

func TestModel_BlankInputAddsNothing(t *testing.T) {
	m, e := newModel(t)

	press(t, m, "   ", "enter")
	assert.Empty(t, e.app.Tasks().Tasks())
}

func TestModel_ToggleAndCounts(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "One", "enter", "Two", "enter", "down", " ")

	tasks := e.app.Tasks().Tasks()
	assert.True(t, tasks[0].Base().Completed, "cursor starts on the newest task")
	view := m.View()
	assert.Contains(t, view, "1 of 2 remaining")
	assert.Contains(t, view, "Completed 5m ago")
	assert.Contains(t, view, "C clear completed")

	m = press(t, m, "C")
	assert.Equal(t, []string{"One"}, texts(e.app.Tasks().Tasks()))
	assert.NotContains(t, m.View(), "C clear completed")
}

func TestModel_Subtasks(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "tab", "Trip", "enter", "down", "+", "passport", "enter", "tickets", "enter", "esc")
	mt := e.app.Tasks().Tasks()[0].(*taskstore.MultiTask)
	require.Len(t, mt.Subtasks, 2)
	assert.False(t, mt.Expanded)

	m = press(t, m, "o")
	assert.Len(t, m.rows, 3)
	assert.Contains(t, m.View(), "passport")

	m = press(t, m, "down", "down", " ")
	mt = e.app.Tasks().Tasks()[0].(*taskstore.MultiTask)
	assert.True(t, mt.Subtasks[1].Completed)
	assert.Contains(t, m.View(), "1/2")

	m = press(t, m, "K")
	mt = e.app.Tasks().Tasks()[0].(*taskstore.MultiTask)
	assert.Equal(t, "tickets", mt.Subtasks[0].Text)
	assert.Equal(t, row{taskID: mt.ID, subtask: 0}, m.rows[m.cursor])

	m = press(t, m, "d")
	mt = e.app.Tasks().Tasks()[0].(*taskstore.MultiTask)
	assert.Equal(t, "passport", mt.Subtasks[0].Text)
	assert.Len(t, mt.Subtasks, 1)
}

func TestModel_SubtaskOnSimpleTaskRefused(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, "Plain", "enter", "down", "+")
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "Only multi tasks have subtasks")
}

func TestModel_ReorderTasks(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "c", "enter", "b", "enter", "a", "enter", "down")
	require.Equal(t, []string{"a", "b", "c"}, texts(e.app.Tasks().Tasks()))

	m = press(t, m, "J", "J")
	assert.Equal(t, []string{"b", "c", "a"}, texts(e.app.Tasks().Tasks()))
	assert.Equal(t, 2, m.cursor, "cursor follows the moved task")

	m = press(t, m, "J")
	assert.Equal(t, []string{"b", "c", "a"}, texts(e.app.Tasks().Tasks()))

	press(t, m, "K")
	assert.Equal(t, []string{"b", "a", "c"}, texts(e.app.Tasks().Tasks()))
}

func TestModel_EditMode(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "Draft", "enter", "down", "e")
	assert.True(t, m.edit.Active())
	assert.Contains(t, m.View(), "[edit]")

	m = press(t, m, " ")
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Draft", m.editor.Value())
	assert.False(t, e.app.Tasks().Tasks()[0].Base().Completed, "selecting in edit mode does not toggle")

	m = press(t, m, " final", "enter")
	assert.Equal(t, "Draft final", e.app.Tasks().Tasks()[0].Base().Text)
	assert.False(t, m.edit.Active())
	assert.Equal(t, modeList, m.mode)
}

func TestModel_EditCancelAndBlank(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "Keep", "enter", "down", "e", " ")
	m.editor.SetValue("")
	m = press(t, m, "enter")
	assert.Equal(t, modeEdit, m.mode, "enter on blank text does nothing")

	m = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.edit.Active())
	assert.Equal(t, "Keep", e.app.Tasks().Tasks()[0].Base().Text)

	m = press(t, m, "e", " ")
	m.editor.SetValue("")
	press(t, m, "down")
	assert.Equal(t, "Keep", e.app.Tasks().Tasks()[0].Base().Text, "blur with blank text cancels")
}

func TestModel_ReorderDisabledInEditMode(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "b", "enter", "a", "enter", "down", "e", "J")
	assert.Equal(t, []string{"a", "b"}, texts(e.app.Tasks().Tasks()))
	assert.Contains(t, m.View(), "disabled in edit mode")
}

func TestModel_EscapeClearsThenMinimizes(t *testing.T) {
	m, e := newModel(t)
	main := e.app.Windows().Main()

	m = press(t, m, "half typed", "esc")
	assert.Empty(t, m.input.Value())
	assert.Equal(t, window.StateVisible, main.State())

	m = press(t, m, "esc")
	assert.Equal(t, window.StateHidden, main.State())
	assert.False(t, main.RecoveryEnabled())
	assert.Contains(t, m.View(), "in the tray")

	m = press(t, m, "x")
	assert.Equal(t, window.StateVisible, main.State())
	assert.Contains(t, m.View(), "TaskTray")
}

func TestModel_CloseKeepsRunning(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "ctrl+w")
	main := e.app.Windows().Main()
	assert.True(t, main.Alive())
	assert.True(t, main.SkipTaskbar())
	assert.Contains(t, m.View(), "still running")
}

func TestModel_ToggleTheme(t *testing.T) {
	m, e := newModel(t)
	var got []any
	e.bus.Subscribe(bus.TopicThemeUpdated, func(p any) { got = append(got, p) })

	m = press(t, m, "ctrl+t")
	assert.Equal(t, settings.ThemeLight, m.theme)
	assert.Equal(t, settings.ThemeLight, e.app.Settings().Theme())
	assert.Equal(t, []any{settings.ThemeLight}, got)
}

func TestModel_AppearanceMessage(t *testing.T) {
	m, e := newModel(t)

	_, err := e.app.Settings().SetOpacity(30)
	require.NoError(t, err)

	next, _ := m.Update(appearanceMsg{})
	m = next.(Model)
	assert.Equal(t, 30, m.opacity)
}

func TestModel_TasksChangedMessage(t *testing.T) {
	m, e := newModel(t)

	_, ok := e.app.Tasks().AddTask(m.ctx, "From elsewhere", taskstore.KindSimple)
	require.True(t, ok)

	next, _ := m.Update(tasksChangedMsg{})
	m = next.(Model)
	assert.Len(t, m.rows, 1)
}

func TestModel_TextIsNotInterpreted(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, "<script>alert(1)</script>", "enter")
	assert.Contains(t, m.View(), "<script>alert(1)</script>")
}

func TestModel_Settings(t *testing.T) {
	m, e := newModel(t)
	var opacities []any
	e.bus.Subscribe(bus.TopicOpacityUpdated, func(p any) { opacities = append(opacities, p) })

	m = press(t, m, "down", "s")
	require.True(t, e.app.Windows().SettingsOpen())
	assert.Contains(t, m.View(), "Settings")

	m = press(t, m, "right", "right", "left")
	assert.Equal(t, 85, e.app.Settings().Opacity())
	assert.Equal(t, []any{85, 90, 85}, opacities)

	m = press(t, m, "down", "enter")
	assert.Equal(t, settings.ThemeLight, e.app.Settings().Theme())

	m = press(t, m, "down", "enter")
	assert.False(t, e.app.Settings().AlwaysOnTop())
	assert.False(t, e.app.Windows().Main().Window().IsAlwaysOnTop())

	m = press(t, m, "down", "down", "enter")
	assert.True(t, e.app.Settings().MinimizeToTray())

	m = press(t, m, "esc")
	assert.False(t, e.app.Windows().SettingsOpen())
	assert.Contains(t, m.View(), "TaskTray")
}

func TestModel_ClearAllData(t *testing.T) {
	m, e := newModel(t)

	m = press(t, m, "Gone soon", "enter", "down", "s")
	for i := 0; i < int(fieldClearData); i++ {
		m = press(t, m, "down")
	}

	m = press(t, m, "enter")
	assert.Contains(t, m.View(), "Are you sure")

	m = press(t, m, "n")
	assert.Len(t, e.app.Tasks().Tasks(), 1)

	m = press(t, m, "enter", "y")
	assert.Empty(t, e.app.Tasks().Tasks())
	assert.Contains(t, m.View(), "All data has been cleared")

	next, cmd := m.Update(key("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, next.(Model).app.RestartRequested())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(quitMsg{})
	require.NotNil(t, cmd)
}

func TestModel_ViewUsesFrame(t *testing.T) {
	m, _ := newModel(t)
	assert.True(t, strings.Contains(m.View(), "TaskTray"))
}
