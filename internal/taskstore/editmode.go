package taskstore

import (
	"context"
	"strings"
	"sync"
)

// EditTarget names the task, and optionally the subtask, being edited.
type EditTarget struct {
	TaskID string

	// Subtask is the subtask index, or nil when editing the task itself.
	Subtask *int
}

// EditSession gates whether selecting a task opens an inline editor
// instead of toggling completion. Entering or leaving edit mode never
// mutates the list; only Commit does.
type EditSession struct {
	store *Store

	mu     sync.Mutex
	active bool
	target *EditTarget
}

// NewEditSession binds an edit session to a store.
func NewEditSession(store *Store) *EditSession {
	return &EditSession{store: store}
}

// Active reports whether edit mode is on.
func (e *EditSession) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Toggle switches edit mode and returns the new state.
func (e *EditSession) Toggle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = !e.active
	e.target = nil
	return e.active
}

// Enter turns edit mode on with nothing selected.
func (e *EditSession) Enter() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = true
	e.target = nil
}

// Exit turns edit mode off and drops any selection.
func (e *EditSession) Exit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.target = nil
}

// Target returns the current selection, if any.
func (e *EditSession) Target() (EditTarget, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.target == nil {
		return EditTarget{}, false
	}
	return *e.target, true
}

// Select picks a task, or a subtask when subtask is non-nil, for editing
// and returns the text the editor should be seeded with. It does nothing
// outside edit mode or when the target does not exist.
func (e *EditSession) Select(taskID string, subtask *int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return "", false
	}

	t, err := e.store.Get(taskID)
	if err != nil {
		return "", false
	}

	seed := t.Base().Text
	target := &EditTarget{TaskID: taskID}
	if subtask != nil {
		mt, ok := t.(*MultiTask)
		if !ok {
			return "", false
		}
		st := mt.subtask(*subtask)
		if st == nil {
			return "", false
		}
		idx := *subtask
		seed = st.Text
		target.Subtask = &idx
	}

	e.target = target
	return seed, true
}

// Commit applies text to the selected target and leaves edit mode. Blank
// text cancels instead. It returns whether the list changed.
func (e *EditSession) Commit(ctx context.Context, text string) bool {
	e.mu.Lock()
	target := e.target
	e.active = false
	e.target = nil
	e.mu.Unlock()

	if target == nil || strings.TrimSpace(text) == "" {
		return false
	}
	if target.Subtask != nil {
		return e.store.EditSubtaskText(ctx, target.TaskID, *target.Subtask, text)
	}
	return e.store.EditTaskText(ctx, target.TaskID, text)
}

// Cancel discards the pending edit and leaves edit mode.
func (e *EditSession) Cancel() {
	e.Exit()
}
