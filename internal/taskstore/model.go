// Package taskstore owns the widget's ordered task list and every mutation on it.
package taskstore

import (
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes the two task variants.
type Kind string

// Valid task kinds.
const (
	KindSimple Kind = "simple"
	KindMulti  Kind = "multi"
)

// IsValid returns true if the kind is a known task variant.
func (k Kind) IsValid() bool {
	return k == KindSimple || k == KindMulti
}

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("unknown task type %q (want simple or multi)", s)
	}
	return k, nil
}

// Item holds the fields shared by tasks and subtasks.
type Item struct {
	// ID is the unique identifier, time-ordered with a random suffix.
	ID string

	// Text is the user-entered label. Never blank once stored.
	Text string

	// Completed marks the item done.
	Completed bool

	// CompletedAt is set exactly when Completed is true.
	CompletedAt *time.Time

	// CreatedAt is set once at creation.
	CreatedAt time.Time
}

// Base returns the shared fields. It is promoted to every task variant.
func (it *Item) Base() *Item {
	return it
}

// setCompleted flips completion and keeps CompletedAt in step with it.
func (it *Item) setCompleted(done bool, now time.Time) {
	it.Completed = done
	if done {
		ts := now
		it.CompletedAt = &ts
		return
	}
	it.CompletedAt = nil
}

func (it *Item) validate() error {
	if it.ID == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(it.Text) == "" {
		return fmt.Errorf("text is required")
	}
	if it.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}
	if it.Completed != (it.CompletedAt != nil) {
		return fmt.Errorf("completed=%t does not match completed_at", it.Completed)
	}
	return nil
}

func (it Item) copy() Item {
	if it.CompletedAt != nil {
		ts := *it.CompletedAt
		it.CompletedAt = &ts
	}
	return it
}

// Task is a top-level list entry. The only implementations are
// *SimpleTask and *MultiTask; switch on the concrete type to reach
// variant fields.
type Task interface {
	Base() *Item
	Kind() Kind
	Validate() error
	clone() Task
}

// SimpleTask is a task without children.
type SimpleTask struct {
	Item
}

// Kind implements Task.
func (t *SimpleTask) Kind() Kind { return KindSimple }

// Validate implements Task.
func (t *SimpleTask) Validate() error {
	if err := t.validate(); err != nil {
		return &ValidationError{ID: t.ID, Reason: err.Error()}
	}
	return nil
}

func (t *SimpleTask) clone() Task {
	return &SimpleTask{Item: t.copy()}
}

// MultiTask is a task that owns an ordered list of subtasks.
type MultiTask struct {
	Item

	// Subtasks are appended in creation order and reorderable in place.
	Subtasks []*Subtask

	// Expanded controls whether the subtasks are rendered.
	Expanded bool
}

// Kind implements Task.
func (t *MultiTask) Kind() Kind { return KindMulti }

// Validate implements Task.
func (t *MultiTask) Validate() error {
	if err := t.validate(); err != nil {
		return &ValidationError{ID: t.ID, Reason: err.Error()}
	}
	if t.Subtasks == nil {
		return &ValidationError{ID: t.ID, Reason: "multi task must carry a subtask list"}
	}
	for i, st := range t.Subtasks {
		if err := st.validate(); err != nil {
			return &ValidationError{ID: t.ID, Reason: fmt.Sprintf("subtask %d: %s", i, err)}
		}
	}
	return nil
}

func (t *MultiTask) clone() Task {
	c := &MultiTask{Item: t.copy(), Expanded: t.Expanded, Subtasks: make([]*Subtask, len(t.Subtasks))}
	for i, st := range t.Subtasks {
		c.Subtasks[i] = &Subtask{Item: st.copy()}
	}
	return c
}

// subtask returns the subtask at index, or nil when out of range.
func (t *MultiTask) subtask(index int) *Subtask {
	if index < 0 || index >= len(t.Subtasks) {
		return nil
	}
	return t.Subtasks[index]
}

// Subtask is a child of a MultiTask. Subtasks never nest.
type Subtask struct {
	Item
}

// Counts summarizes the top-level list for the footer.
type Counts struct {
	Total     int
	Completed int
	Remaining int
}

// String renders the counts the way the widget footer shows them.
func (c Counts) String() string {
	switch {
	case c.Total == 0:
		return "0 tasks"
	case c.Completed == 0:
		if c.Total == 1 {
			return "1 task"
		}
		return fmt.Sprintf("%d tasks", c.Total)
	default:
		return fmt.Sprintf("%d of %d remaining", c.Remaining, c.Total)
	}
}

// ValidateList checks every task in the list and that ids are unique.
func ValidateList(tasks []Task) error {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		id := t.Base().ID
		if seen[id] {
			return &ValidationError{ID: id, Reason: "duplicate id"}
		}
		seen[id] = true
	}
	return nil
}

func cloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.clone()
	}
	return out
}
