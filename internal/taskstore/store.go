package taskstore

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Persister loads and saves full snapshots of the task list.
// This interface is defined at the consumer level following Go idioms.
type Persister interface {
	// LoadTasks returns the persisted list, or an empty list when nothing
	// has been saved yet.
	LoadTasks(ctx context.Context) ([]Task, error)

	// SaveTasks overwrites the persisted list.
	SaveTasks(ctx context.Context, tasks []Task) error
}

// Observer is called with a snapshot of the list after every change.
// The snapshot is shared between observers and must be treated as read-only.
type Observer func(tasks []Task)

// Option configures a Store.
type Option func(*Store)

// WithPersister sets where snapshots are loaded from and written to.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides id generation.
func WithIDFunc(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store is the single owner of the task list. Every mutation runs to
// completion under the lock, writes one full snapshot and notifies
// observers once. Invalid input and unknown ids are silent no-ops; the
// returned bool reports whether anything changed.
type Store struct {
	mu        sync.Mutex
	tasks     []Task
	persister Persister
	observers []Observer
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		tasks:  []Task{},
		now:    time.Now,
		newID:  NewID,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Observe registers an observer and returns a function that removes it.
func (s *Store) Observe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, o)
	idx := len(s.observers) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.observers) {
			s.observers[idx] = nil
		}
	}
}

// Load replaces the in-memory list with the persisted one. A read failure
// is logged and leaves the list empty. Observers are notified so the
// presentation can draw the initial state.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	tasks := []Task{}
	if s.persister != nil {
		loaded, err := s.persister.LoadTasks(ctx)
		if err != nil {
			s.logger.Warn("failed to load tasks, starting empty", "error", err)
		} else if loaded != nil {
			tasks = loaded
		}
	}
	s.tasks = tasks
	snap := cloneAll(s.tasks)
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	notify(observers, snap)
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}
	return s.tasks[i].clone(), nil
}

// Resolve expands a unique id prefix to a full id.
func (s *Store) Resolve(prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefix == "" {
		return "", &NotFoundError{ID: prefix}
	}

	var match string
	for _, t := range s.tasks {
		id := t.Base().ID
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", ErrAmbiguous
			}
			match = id
		}
	}
	if match == "" {
		return "", &NotFoundError{ID: prefix}
	}
	return match, nil
}

// Counts returns total, completed and remaining top-level counts.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Counts{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Base().Completed {
			c.Completed++
		}
	}
	c.Remaining = c.Total - c.Completed
	return c
}

// HasCompleted reports whether ClearCompleted would remove anything.
func (s *Store) HasCompleted() bool {
	return s.Counts().Completed > 0
}

// AddTask prepends a new task and returns its id. Blank text and unknown
// kinds are rejected.
func (s *Store) AddTask(ctx context.Context, text string, kind Kind) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !kind.IsValid() {
		return "", false
	}

	var id string
	changed := s.mutate(ctx, func() bool {
		item := Item{ID: s.newID(), Text: text, CreatedAt: s.now()}
		id = item.ID

		var t Task
		if kind == KindMulti {
			t = &MultiTask{Item: item, Subtasks: []*Subtask{}}
		} else {
			t = &SimpleTask{Item: item}
		}
		s.tasks = slices.Insert(s.tasks, 0, t)
		return true
	})
	return id, changed
}

// ToggleTask flips a task's completion.
func (s *Store) ToggleTask(ctx context.Context, id string) bool {
	return s.mutate(ctx, func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		it := s.tasks[i].Base()
		it.setCompleted(!it.Completed, s.now())
		return true
	})
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) bool {
	return s.mutate(ctx, func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.tasks = slices.Delete(s.tasks, i, i+1)
		return true
	})
}

// EditTaskText replaces a task's text. Blank text is treated as a cancel.
func (s *Store) EditTaskText(ctx context.Context, id, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return s.mutate(ctx, func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.tasks[i].Base().Text = text
		return true
	})
}

// EditSubtaskText replaces the text of the subtask at index. The task must
// be multi and the index in range.
func (s *Store) EditSubtaskText(ctx context.Context, id string, index int, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return s.mutate(ctx, func() bool {
		st := s.subtask(id, index)
		if st == nil {
			return false
		}
		st.Text = text
		return true
	})
}

// ToggleSubtasks flips whether a multi task's subtasks are shown.
func (s *Store) ToggleSubtasks(ctx context.Context, id string) bool {
	return s.mutate(ctx, func() bool {
		mt := s.multi(id)
		if mt == nil {
			return false
		}
		mt.Expanded = !mt.Expanded
		return true
	})
}

// AddSubtask appends a subtask to a multi task and returns its id.
func (s *Store) AddSubtask(ctx context.Context, id, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	var subID string
	changed := s.mutate(ctx, func() bool {
		mt := s.multi(id)
		if mt == nil {
			return false
		}
		st := &Subtask{Item: Item{ID: s.newID(), Text: text, CreatedAt: s.now()}}
		subID = st.ID
		mt.Subtasks = append(mt.Subtasks, st)
		return true
	})
	return subID, changed
}

// ToggleSubtask flips completion of the subtask at index.
func (s *Store) ToggleSubtask(ctx context.Context, id string, index int) bool {
	return s.mutate(ctx, func() bool {
		st := s.subtask(id, index)
		if st == nil {
			return false
		}
		st.setCompleted(!st.Completed, s.now())
		return true
	})
}

// DeleteSubtask removes the subtask at index.
func (s *Store) DeleteSubtask(ctx context.Context, id string, index int) bool {
	return s.mutate(ctx, func() bool {
		mt := s.multi(id)
		if mt == nil || mt.subtask(index) == nil {
			return false
		}
		mt.Subtasks = slices.Delete(mt.Subtasks, index, index+1)
		return true
	})
}

// ClearCompleted removes every completed top-level task. Subtask
// completion has no effect on whether a multi task is removed.
func (s *Store) ClearCompleted(ctx context.Context) bool {
	return s.mutate(ctx, func() bool {
		before := len(s.tasks)
		s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool {
			return t.Base().Completed
		})
		return len(s.tasks) != before
	})
}

// ReorderTask moves the dragged task into the target's position.
func (s *Store) ReorderTask(ctx context.Context, draggedID, targetID string) bool {
	if draggedID == targetID {
		return false
	}
	return s.mutate(ctx, func() bool {
		from, to := s.indexOf(draggedID), s.indexOf(targetID)
		if from < 0 || to < 0 {
			return false
		}
		var moved bool
		s.tasks, moved = MoveElement(s.tasks, from, to)
		return moved
	})
}

// ReorderSubtask moves a subtask within its parent.
func (s *Store) ReorderSubtask(ctx context.Context, id string, from, to int) bool {
	return s.mutate(ctx, func() bool {
		mt := s.multi(id)
		if mt == nil {
			return false
		}
		var moved bool
		mt.Subtasks, moved = MoveElement(mt.Subtasks, from, to)
		return moved
	})
}

// ReorderSubtaskDrag handles a subtask drop where the drag source and the
// drop target each name their parent. Moves across parents are refused.
func (s *Store) ReorderSubtaskDrag(ctx context.Context, fromTaskID string, from int, toTaskID string, to int) bool {
	if fromTaskID != toTaskID {
		return false
	}
	return s.ReorderSubtask(ctx, fromTaskID, from, to)
}

// mutate runs fn under the lock and, when it reports a change, persists
// the list and notifies observers.
func (s *Store) mutate(ctx context.Context, fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}

	snap := cloneAll(s.tasks)
	if s.persister != nil {
		if err := s.persister.SaveTasks(ctx, snap); err != nil {
			s.logger.Warn("failed to save tasks", "error", err)
		}
	}
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	notify(observers, snap)
	return true
}

func notify(observers []Observer, snap []Task) {
	for _, o := range observers {
		if o != nil {
			o(snap)
		}
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool {
		return t.Base().ID == id
	})
}

func (s *Store) multi(id string) *MultiTask {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	mt, _ := s.tasks[i].(*MultiTask)
	return mt
}

func (s *Store) subtask(id string, index int) *Subtask {
	mt := s.multi(id)
	if mt == nil {
		return nil
	}
	return mt.subtask(index)
}
