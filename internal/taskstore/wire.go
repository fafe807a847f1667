package taskstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// wireItem is the persisted shape of a task or subtask. Field names match
// the snapshot stored under the "tasks" key.
type wireItem struct {
	ID          wireID      `json:"id"`
	Text        string      `json:"text"`
	Type        Kind        `json:"type,omitempty"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	Subtasks    *[]wireItem `json:"subtasks,omitempty"`
	Expanded    *bool       `json:"expanded,omitempty"`
}

// wireID accepts both string ids and the numeric ids written by older
// snapshots.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid task id %s", data)
	}
	*id = wireID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// List is the JSON form of the whole task list.
type List []Task

// MarshalJSON encodes the list. Subtasks and expanded are written only
// for multi tasks.
func (l List) MarshalJSON() ([]byte, error) {
	out := make([]wireItem, 0, len(l))
	for _, t := range l {
		out = append(out, toWire(t))
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the list. Decoding is lenient: a record without a
// type becomes multi only when it carries subtasks, a simple record loses
// any stray subtasks, missing ids are regenerated and completedAt is
// brought in line with completed.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw []wireItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse task list: %w", err)
	}

	tasks := make(List, 0, len(raw))
	for _, w := range raw {
		t, err := fromWire(w)
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
	}
	*l = tasks
	return nil
}

func toWire(t Task) wireItem {
	w := itemToWire(t.Base())
	w.Type = t.Kind()

	if mt, ok := t.(*MultiTask); ok {
		subs := make([]wireItem, len(mt.Subtasks))
		for i, st := range mt.Subtasks {
			subs[i] = itemToWire(&st.Item)
		}
		expanded := mt.Expanded
		w.Subtasks = &subs
		w.Expanded = &expanded
	}
	return w
}

func itemToWire(it *Item) wireItem {
	return wireItem{
		ID:          wireID(it.ID),
		Text:        it.Text,
		Completed:   it.Completed,
		CompletedAt: it.CompletedAt,
		CreatedAt:   it.CreatedAt,
	}
}

func fromWire(w wireItem) (Task, error) {
	kind := w.Type
	if kind == "" {
		kind = KindSimple
		if w.Subtasks != nil {
			kind = KindMulti
		}
	}

	switch kind {
	case KindSimple:
		return &SimpleTask{Item: itemFromWire(w)}, nil
	case KindMulti:
		mt := &MultiTask{Item: itemFromWire(w), Subtasks: []*Subtask{}}
		if w.Subtasks != nil {
			for _, sw := range *w.Subtasks {
				mt.Subtasks = append(mt.Subtasks, &Subtask{Item: itemFromWire(sw)})
			}
		}
		if w.Expanded != nil {
			mt.Expanded = *w.Expanded
		}
		return mt, nil
	default:
		return nil, &ValidationError{ID: string(w.ID), Reason: fmt.Sprintf("unknown task type %q", w.Type)}
	}
}

func itemFromWire(w wireItem) Item {
	it := Item{
		ID:        string(w.ID),
		Text:      w.Text,
		Completed: w.Completed,
		CreatedAt: w.CreatedAt,
	}
	if it.ID == "" {
		it.ID = NewID()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	if it.Completed {
		ts := it.CreatedAt
		if w.CompletedAt != nil {
			ts = *w.CompletedAt
		}
		it.CompletedAt = &ts
	}
	return it
}
