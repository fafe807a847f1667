package taskstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_MarshalJSON_VariantFields(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	list := List{
		&MultiTask{
			Item:     Item{ID: "m1", Text: "Plan trip", CreatedAt: now},
			Subtasks: []*Subtask{{Item: Item{ID: "s1", Text: "Book flight", CreatedAt: now}}},
		},
		&SimpleTask{Item: Item{ID: "t1", Text: "Buy milk", CreatedAt: now, Completed: true, CompletedAt: &now}},
	}

	data, err := json.Marshal(list)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)

	assert.Equal(t, "multi", raw[0]["type"])
	assert.Contains(t, raw[0], "subtasks")
	assert.Equal(t, false, raw[0]["expanded"])
	assert.Nil(t, raw[0]["completedAt"])

	assert.Equal(t, "simple", raw[1]["type"])
	assert.NotContains(t, raw[1], "subtasks")
	assert.NotContains(t, raw[1], "expanded")
	assert.Equal(t, "2026-01-02T03:04:05Z", raw[1]["completedAt"])
}

func TestList_UnmarshalJSON(t *testing.T) {
	t.Run("decodes both variants", func(t *testing.T) {
		data := `[
			{"id":"m1","text":"Plan trip","type":"multi","completed":false,"completedAt":null,
			 "createdAt":"2026-01-02T03:04:05Z","expanded":true,
			 "subtasks":[{"id":"s1","text":"Book flight","completed":true,"completedAt":"2026-01-03T00:00:00Z","createdAt":"2026-01-02T03:04:05Z"}]},
			{"id":"t1","text":"Buy milk","type":"simple","completed":false,"completedAt":null,"createdAt":"2026-01-02T03:04:05Z"}
		]`

		var list List
		require.NoError(t, json.Unmarshal([]byte(data), &list))
		require.Len(t, list, 2)

		mt, ok := list[0].(*MultiTask)
		require.True(t, ok)
		assert.True(t, mt.Expanded)
		require.Len(t, mt.Subtasks, 1)
		assert.True(t, mt.Subtasks[0].Completed)
		require.NotNil(t, mt.Subtasks[0].CompletedAt)

		_, ok = list[1].(*SimpleTask)
		assert.True(t, ok)
		assert.NoError(t, ValidateList(list))
	})

	t.Run("simple record drops stray subtasks", func(t *testing.T) {
		data := `[{"id":"t1","text":"x","type":"simple","createdAt":"2026-01-02T03:04:05Z","subtasks":[{"id":"s","text":"y"}],"expanded":true}]`

		var list List
		require.NoError(t, json.Unmarshal([]byte(data), &list))
		_, ok := list[0].(*SimpleTask)
		assert.True(t, ok)
	})

	t.Run("untyped record with subtasks becomes multi", func(t *testing.T) {
		data := `[{"id":"t1","text":"x","createdAt":"2026-01-02T03:04:05Z","subtasks":[]}]`

		var list List
		require.NoError(t, json.Unmarshal([]byte(data), &list))
		mt, ok := list[0].(*MultiTask)
		require.True(t, ok)
		assert.NotNil(t, mt.Subtasks)
	})

	t.Run("normalizes completion timestamps", func(t *testing.T) {
		data := `[
			{"id":"a","text":"done","type":"simple","completed":true,"createdAt":"2026-01-02T03:04:05Z"},
			{"id":"b","text":"open","type":"simple","completed":false,"completedAt":"2026-01-02T03:04:05Z","createdAt":"2026-01-02T03:04:05Z"}
		]`

		var list List
		require.NoError(t, json.Unmarshal([]byte(data), &list))
		assert.NotNil(t, list[0].Base().CompletedAt)
		assert.Nil(t, list[1].Base().CompletedAt)
		assert.NoError(t, ValidateList(list))
	})

	t.Run("accepts numeric legacy ids", func(t *testing.T) {
		data := `[{"id":1718000000000.123,"text":"old","type":"simple","createdAt":"2026-01-02T03:04:05Z"}]`

		var list List
		require.NoError(t, json.Unmarshal([]byte(data), &list))
		assert.Equal(t, "1718000000000.123", list[0].Base().ID)
	})

	t.Run("fills missing ids", func(t *testing.T) {
		data := `[{"text":"no id","type":"simple","createdAt":"2026-01-02T03:04:05Z"}]`

		var list List
		require.NoError(t, json.Unmarshal([]byte(data), &list))
		assert.NotEmpty(t, list[0].Base().ID)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		data := `[{"id":"a","text":"x","type":"nested","createdAt":"2026-01-02T03:04:05Z"}]`

		var list List
		err := json.Unmarshal([]byte(data), &list)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("null decodes to empty", func(t *testing.T) {
		var list List
		require.NoError(t, json.Unmarshal([]byte(`null`), &list))
		assert.Empty(t, list)
	})
}

func TestList_RoundTripPreservesVariant(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	in := List{
		&MultiTask{Item: Item{ID: "m", Text: "multi", CreatedAt: now}, Subtasks: []*Subtask{}, Expanded: true},
		&SimpleTask{Item: Item{ID: "s", Text: "simple", CreatedAt: now}},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out List
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
