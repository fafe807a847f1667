package taskstore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLTask represents a task as written in an import file.
type YAMLTask struct {
	Text      string        `yaml:"text"`
	Type      string        `yaml:"type,omitempty"`
	Completed bool          `yaml:"completed,omitempty"`
	Subtasks  []YAMLSubtask `yaml:"subtasks,omitempty"`
}

// YAMLSubtask is a subtask entry: a bare string, or a mapping with text
// and completed.
type YAMLSubtask struct {
	Text      string `yaml:"text"`
	Completed bool   `yaml:"completed,omitempty"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (s *YAMLSubtask) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&s.Text)
	}
	type plain YAMLSubtask
	return node.Decode((*plain)(s))
}

// YAMLFile represents the structure of a tasks YAML file.
type YAMLFile struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// ImportError represents an error that occurred during import of a specific entry.
type ImportError struct {
	Index  int
	Reason string
}

// ImportResult contains the results of a YAML import operation.
type ImportResult struct {
	Imported int
	Errors   []ImportError
}

// ImportFromYAML reads tasks from a YAML file and adds them to the store.
// The file's first entry ends up at the top of the list. Entries that fail
// validation are skipped and reported in the result.
func ImportFromYAML(ctx context.Context, store *Store, path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}

	var yamlFile YAMLFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	result := &ImportResult{}

	// New tasks prepend, so walk the file backwards to keep its order.
	for i := len(yamlFile.Tasks) - 1; i >= 0; i-- {
		yt := yamlFile.Tasks[i]
		if err := validateYAMLTask(yt); err != nil {
			result.Errors = append(result.Errors, ImportError{Index: i, Reason: err.Error()})
			continue
		}

		kind := KindSimple
		if yt.Type != "" {
			kind = Kind(strings.ToLower(yt.Type))
		} else if len(yt.Subtasks) > 0 {
			kind = KindMulti
		}

		id, ok := store.AddTask(ctx, yt.Text, kind)
		if !ok {
			result.Errors = append(result.Errors, ImportError{Index: i, Reason: "task was rejected"})
			continue
		}
		added := 0
		for _, sub := range yt.Subtasks {
			if _, ok := store.AddSubtask(ctx, id, sub.Text); !ok {
				continue
			}
			if sub.Completed {
				store.ToggleSubtask(ctx, id, added)
			}
			added++
		}
		if yt.Completed {
			store.ToggleTask(ctx, id)
		}
		result.Imported++
	}

	return result, nil
}

// validateYAMLTask checks an import entry before anything is written.
func validateYAMLTask(yt YAMLTask) error {
	if strings.TrimSpace(yt.Text) == "" {
		return fmt.Errorf("task text is required")
	}

	if yt.Type != "" {
		if _, err := ParseKind(yt.Type); err != nil {
			return err
		}
	}

	if len(yt.Subtasks) > 0 && strings.EqualFold(yt.Type, string(KindSimple)) {
		return fmt.Errorf("simple tasks cannot have subtasks")
	}

	return nil
}
