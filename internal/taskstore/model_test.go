package taskstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_ValidValues(t *testing.T) {
	assert.True(t, KindSimple.IsValid())
	assert.True(t, KindMulti.IsValid())
	assert.False(t, Kind("nested").IsValid())
	assert.False(t, Kind("").IsValid())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "simple", want: KindSimple},
		{in: " Multi ", want: KindMulti},
		{in: "MULTI", want: KindMulti},
		{in: "list", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTask_Validate(t *testing.T) {
	now := time.Now()

	t.Run("valid simple task", func(t *testing.T) {
		task := &SimpleTask{Item: Item{ID: "a", Text: "x", CreatedAt: now}}
		assert.NoError(t, task.Validate())
	})

	t.Run("completed without timestamp", func(t *testing.T) {
		task := &SimpleTask{Item: Item{ID: "a", Text: "x", CreatedAt: now, Completed: true}}
		err := task.Validate()
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("timestamp without completed", func(t *testing.T) {
		task := &SimpleTask{Item: Item{ID: "a", Text: "x", CreatedAt: now, CompletedAt: &now}}
		assert.ErrorIs(t, task.Validate(), ErrValidation)
	})

	t.Run("blank text", func(t *testing.T) {
		task := &SimpleTask{Item: Item{ID: "a", Text: "  ", CreatedAt: now}}
		assert.ErrorIs(t, task.Validate(), ErrValidation)
	})

	t.Run("multi task needs subtask list", func(t *testing.T) {
		task := &MultiTask{Item: Item{ID: "a", Text: "x", CreatedAt: now}}
		assert.ErrorIs(t, task.Validate(), ErrValidation)

		task.Subtasks = []*Subtask{}
		assert.NoError(t, task.Validate())
	})

	t.Run("invalid subtask", func(t *testing.T) {
		task := &MultiTask{
			Item:     Item{ID: "a", Text: "x", CreatedAt: now},
			Subtasks: []*Subtask{{Item: Item{ID: "s", Text: "", CreatedAt: now}}},
		}
		err := task.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "subtask 0")
	})
}

func TestValidateList_DuplicateIDs(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		&SimpleTask{Item: Item{ID: "dup", Text: "a", CreatedAt: now}},
		&MultiTask{Item: Item{ID: "dup", Text: "b", CreatedAt: now}, Subtasks: []*Subtask{}},
	}

	err := ValidateList(tasks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestCounts_String(t *testing.T) {
	assert.Equal(t, "0 tasks", Counts{}.String())
	assert.Equal(t, "1 task", Counts{Total: 1, Remaining: 1}.String())
	assert.Equal(t, "3 tasks", Counts{Total: 3, Remaining: 3}.String())
	assert.Equal(t, "2 of 3 remaining", Counts{Total: 3, Completed: 1, Remaining: 2}.String())
}

func TestNewID_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestClone_DeepCopiesSubtasks(t *testing.T) {
	now := time.Now()
	orig := &MultiTask{
		Item:     Item{ID: "m", Text: "parent", CreatedAt: now, Completed: true, CompletedAt: &now},
		Subtasks: []*Subtask{{Item: Item{ID: "s", Text: "child", CreatedAt: now}}},
	}

	c := orig.clone().(*MultiTask)
	c.Subtasks[0].Text = "changed"
	*c.CompletedAt = now.Add(time.Hour)

	assert.Equal(t, "child", orig.Subtasks[0].Text)
	assert.True(t, orig.CompletedAt.Equal(now))
}
