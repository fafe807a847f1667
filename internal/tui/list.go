package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasktray/tasktray/internal/taskstore"
)

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Window-level shortcuts work while typing, but not inside the editor.
	switch k := msg.String(); k {
	case "ctrl+t", "ctrl+w", "ctrl+n":
		if m.mode != modeEdit {
			return m.updateList(k)
		}
	}

	switch m.mode {
	case modeAdd:
		return m.updateAdd(msg)
	case modeSubtask:
		return m.updateSubtask(msg)
	case modeEdit:
		return m.updateEditor(msg)
	}
	return m.updateList(msg.String())
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	m.status = ""
	tasks := m.app.Tasks()

	switch key {
	case "q":
		return m.quit()
	case "up", "k":
		m.cursor--
		m.clampCursor()
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "/", "ctrl+n", "a":
		return m.focusAdd()
	case "tab":
		m.toggleKind()
	case " ", "space", "enter":
		r, ok := m.current()
		if !ok {
			break
		}
		if m.edit.Active() {
			return m.beginEdit(r)
		}
		if r.subtask < 0 {
			tasks.ToggleTask(m.ctx, r.taskID)
		} else {
			tasks.ToggleSubtask(m.ctx, r.taskID, r.subtask)
		}
	case "d", "delete":
		r, ok := m.current()
		if !ok {
			break
		}
		if r.subtask < 0 {
			tasks.DeleteTask(m.ctx, r.taskID)
		} else {
			tasks.DeleteSubtask(m.ctx, r.taskID, r.subtask)
		}
	case "o", "left", "right":
		if r, ok := m.current(); ok {
			if tasks.ToggleSubtasks(m.ctx, r.taskID) {
				m.reload()
				m.focusRow(row{taskID: r.taskID, subtask: -1})
			}
		}
	case "+":
		return m.focusSubtask()
	case "K", "shift+up":
		m.reorder(-1)
	case "J", "shift+down":
		m.reorder(1)
	case "C":
		if !tasks.ClearCompleted(m.ctx) {
			m.status = "Nothing to clear"
		}
	case "ctrl+t":
		if _, err := m.app.Settings().ToggleTheme(); err != nil {
			m.status = err.Error()
		}
		m.applyAppearance()
	case "p":
		if m.app.ToggleAlwaysOnTop() {
			m.status = "Pinned on top"
		} else {
			m.status = "Unpinned"
		}
	case "e":
		if m.edit.Toggle() {
			m.status = "Edit mode: select a task to edit"
		}
	case "ctrl+w":
		m.app.Close()
		m.status = "Removed from taskbar; still running in the tray"
	case "s":
		m.settings = settingsModel{}
		m.app.NavigateToSettings()
	case "esc":
		switch {
		case m.input.Value() != "":
			m.input.SetValue("")
		case m.edit.Active():
			m.edit.Exit()
		default:
			m.app.Minimize()
		}
	}

	m.reload()
	return m, nil
}

func (m Model) focusAdd() (tea.Model, tea.Cmd) {
	m.mode = modeAdd
	return m, m.input.Focus()
}

func (m Model) focusSubtask() (tea.Model, tea.Cmd) {
	r, ok := m.current()
	if !ok {
		return m, nil
	}
	if _, multi := m.task(r.taskID).(*taskstore.MultiTask); !multi {
		m.status = "Only multi tasks have subtasks"
		return m, nil
	}
	m.subTaskID = r.taskID
	m.subInput.SetValue("")
	m.mode = modeSubtask
	return m, m.subInput.Focus()
}

func (m *Model) toggleKind() {
	if m.kind == taskstore.KindMulti {
		m.kind = taskstore.KindSimple
	} else {
		m.kind = taskstore.KindMulti
	}
}

// reorder moves the row under the cursor one step, the way a drag onto
// the neighbouring row would.
func (m *Model) reorder(step int) {
	if m.edit.Active() {
		m.status = "Reordering is disabled in edit mode"
		return
	}
	r, ok := m.current()
	if !ok {
		return
	}

	tasks := m.app.Tasks()
	if r.subtask >= 0 {
		to := r.subtask + step
		if tasks.ReorderSubtask(m.ctx, r.taskID, r.subtask, to) {
			m.reload()
			m.focusRow(row{taskID: r.taskID, subtask: to})
		}
		return
	}

	i := m.taskIndex(r.taskID)
	j := i + step
	if i < 0 || j < 0 || j >= len(m.tasks) {
		return
	}
	if tasks.ReorderTask(m.ctx, r.taskID, m.tasks[j].Base().ID) {
		m.reload()
		m.focusRow(r)
	}
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if _, ok := m.app.Tasks().AddTask(m.ctx, m.input.Value(), m.kind); ok {
			m.input.SetValue("")
			m.reload()
			m.cursor = 0
		}
		return m, nil
	case "tab":
		m.toggleKind()
		return m, nil
	case "esc":
		if m.input.Value() != "" {
			m.input.SetValue("")
			return m, nil
		}
		m.input.Blur()
		m.mode = modeList
		m.app.Minimize()
		return m, nil
	case "up", "down":
		m.input.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSubtask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if _, ok := m.app.Tasks().AddSubtask(m.ctx, m.subTaskID, m.subInput.Value()); ok {
			m.subInput.SetValue("")
			m.reload()
		}
		return m, nil
	case "esc", "up", "down":
		m.subInput.Blur()
		m.subTaskID = ""
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.subInput, cmd = m.subInput.Update(msg)
	return m, cmd
}

func (m Model) beginEdit(r row) (tea.Model, tea.Cmd) {
	var sub *int
	if r.subtask >= 0 {
		idx := r.subtask
		sub = &idx
	}
	seed, ok := m.edit.Select(r.taskID, sub)
	if !ok {
		return m, nil
	}
	m.editor.SetValue(seed)
	m.editor.CursorEnd()
	m.mode = modeEdit
	return m, m.editor.Focus()
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if strings.TrimSpace(m.editor.Value()) == "" {
			return m, nil
		}
		return m.finishEdit(), nil
	case "esc":
		m.edit.Cancel()
		m.editor.Blur()
		m.mode = modeList
		return m, nil
	case "up", "down", "tab":
		// Leaving the editor is a blur: keep non-blank text.
		return m.finishEdit(), nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) finishEdit() Model {
	m.edit.Commit(m.ctx, m.editor.Value())
	m.editor.Blur()
	m.mode = modeList
	m.reload()
	return m
}

func (m Model) viewMain() string {
	s := m.styles
	var b strings.Builder

	title := s.Title.Render("TaskTray")
	if m.edit.Active() {
		title += " " + s.Badge.Render("[edit]")
	}
	b.WriteString(title + "\n\n")

	kind := "simple"
	if m.kind == taskstore.KindMulti {
		kind = "multi"
	}
	b.WriteString(s.Badge.Render("["+kind+"]") + " " + m.input.View() + "\n\n")

	if len(m.rows) == 0 {
		b.WriteString(s.Muted.Render("No tasks yet. Press / to add one.") + "\n")
	}

	target, editing := m.edit.Target()
	for i, r := range m.rows {
		t := m.task(r.taskID)
		if t == nil {
			continue
		}

		cursor := "  "
		if i == m.cursor && m.mode != modeAdd {
			cursor = s.Cursor.Render("> ")
		}

		isTarget := editing && m.mode == modeEdit && target.TaskID == r.taskID &&
			((r.subtask < 0 && target.Subtask == nil) ||
				(r.subtask >= 0 && target.Subtask != nil && *target.Subtask == r.subtask))

		if r.subtask < 0 {
			b.WriteString(cursor + m.renderTask(t, isTarget) + "\n")
		} else {
			b.WriteString(cursor + "    " + m.renderSubtask(t, r.subtask, isTarget) + "\n")
		}

		if m.mode == modeSubtask && m.subTaskID == r.taskID && m.isLastRowOf(i) {
			b.WriteString("      " + s.Badge.Render("+") + " " + m.subInput.View() + "\n")
		}
	}

	counts := m.app.Tasks().Counts()
	footer := counts.String()
	if m.app.Tasks().HasCompleted() {
		footer += " · C clear completed"
	}
	b.WriteString(s.Footer.Render(footer) + "\n")

	if m.status != "" {
		b.WriteString(s.Muted.Render(m.status) + "\n")
	}
	b.WriteString(s.Muted.Render("/ add · tab type · space toggle · + subtask · e edit · s settings · q quit"))

	return s.Frame.Render(b.String())
}

// isLastRowOf reports whether row i is the last visible row of its task.
func (m Model) isLastRowOf(i int) bool {
	return i == len(m.rows)-1 || m.rows[i+1].taskID != m.rows[i].taskID
}

func (m Model) renderTask(t taskstore.Task, editing bool) string {
	s := m.styles
	it := t.Base()

	box := "[ ]"
	textStyle := s.Text
	if it.Completed {
		box = "[x]"
		textStyle = s.Done
	}

	text := textStyle.Render(plain(it.Text))
	if editing {
		text = m.editor.View()
	}
	line := box + " " + text

	if mt, ok := t.(*taskstore.MultiTask); ok {
		arrow := "▸"
		if mt.Expanded {
			arrow = "▾"
		}
		done := 0
		for _, st := range mt.Subtasks {
			if st.Completed {
				done++
			}
		}
		line += " " + s.Badge.Render(fmt.Sprintf("%s %d/%d", arrow, done, len(mt.Subtasks)))
	}

	if it.Completed && it.CompletedAt != nil && m.opts.RelativeDates {
		line += " " + s.Muted.Render("Completed "+FormatRelative(*it.CompletedAt, m.opts.Now()))
	}
	return line
}

func (m Model) renderSubtask(t taskstore.Task, index int, editing bool) string {
	s := m.styles
	mt, ok := t.(*taskstore.MultiTask)
	if !ok || index >= len(mt.Subtasks) {
		return ""
	}
	st := mt.Subtasks[index]

	box := "[ ]"
	textStyle := s.Text
	if st.Completed {
		box = "[x]"
		textStyle = s.Done
	}
	if editing {
		return box + " " + m.editor.View()
	}
	return box + " " + textStyle.Render(plain(st.Text))
}

func (m Model) updateHidden(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m.quit()
	}
	m.app.Windows().Main().TrayClick()
	m.reload()
	return m, nil
}

func (m Model) viewHidden() string {
	s := m.styles
	return s.Muted.Render("TaskTray is in the tray. Press any key to restore, q to quit.")
}
